package settings

import (
	"context"
	"fmt"

	"github.com/petar-djukic/cabplanner/pkg/types"
)

// View modes of the project details cabinet list.
const (
	ViewModeCards = "cards"
	ViewModeTable = "table"
)

// uiPrefix namespaces the project details UI keys.
const uiPrefix = "project_details/"

// UIState persists the project details view state as settings.
type UIState struct {
	svc *Service
}

// NewUIState returns the UI state stored through svc.
func NewUIState(svc *Service) *UIState {
	return &UIState{svc: svc}
}

// Key returns the full settings key of a UI state name.
func (u *UIState) Key(name string) string {
	return uiPrefix + name
}

// ViewMode returns the saved view mode, cards when none is saved.
func (u *UIState) ViewMode(ctx context.Context) (string, error) {
	mode, err := u.svc.String(ctx, u.Key("view_mode"), ViewModeCards)
	if err != nil {
		return ViewModeCards, err
	}
	if mode != ViewModeCards && mode != ViewModeTable {
		return ViewModeCards, nil
	}
	return mode, nil
}

// SetViewMode saves the view mode.
func (u *UIState) SetViewMode(ctx context.Context, mode string) error {
	if mode != ViewModeCards && mode != ViewModeTable {
		return fmt.Errorf("%w: %q", types.ErrInvalidViewMode, mode)
	}
	_, err := u.svc.Set(ctx, u.Key("view_mode"), mode)
	return err
}

// SelectedTab returns the saved tab index, 0 when none is saved.
func (u *UIState) SelectedTab(ctx context.Context) (int, error) {
	return u.svc.Int(ctx, u.Key("selected_tab"), 0)
}

// SetSelectedTab saves the tab index. Negative indexes are rejected.
func (u *UIState) SetSelectedTab(ctx context.Context, tab int) error {
	if tab < 0 {
		return fmt.Errorf("%w: %d", types.ErrInvalidTab, tab)
	}
	_, err := u.svc.Set(ctx, u.Key("selected_tab"), tab)
	return err
}

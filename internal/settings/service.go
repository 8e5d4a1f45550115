// Package settings stores typed application preferences as key/value rows
// and the persistent UI state of the project details view.
package settings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/petar-djukic/cabplanner/internal/logging"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

// Service reads and writes settings.
type Service struct {
	repo types.SettingRepository
	log  logging.Logger
}

// NewService returns a settings service over repo.
func NewService(repo types.SettingRepository, log logging.Logger) *Service {
	if log == nil {
		log = logging.Nop()
	}
	return &Service{repo: repo, log: log}
}

// Get returns the typed value of key: bool, int, float64 or string per
// its value type. A missing key returns def.
func (s *Service) Get(ctx context.Context, key string, def any) (any, error) {
	st, err := s.repo.GetSetting(ctx, key)
	if errors.Is(err, types.ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return nil, err
	}
	return Decode(st)
}

// String returns key as text, or def when missing.
func (s *Service) String(ctx context.Context, key, def string) (string, error) {
	v, err := s.Get(ctx, key, def)
	if err != nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}

// Bool returns key as a bool, or def when missing or not a bool.
func (s *Service) Bool(ctx context.Context, key string, def bool) (bool, error) {
	v, err := s.Get(ctx, key, def)
	if err != nil {
		return def, err
	}
	b, ok := v.(bool)
	if !ok {
		return def, nil
	}
	return b, nil
}

// Int returns key as an int, or def when missing or not an int.
func (s *Service) Int(ctx context.Context, key string, def int) (int, error) {
	v, err := s.Get(ctx, key, def)
	if err != nil {
		return def, err
	}
	n, ok := v.(int)
	if !ok {
		return def, nil
	}
	return n, nil
}

// Set stores value under key. The value type is inferred from the Go type:
// bool, any integer, float32/float64, and text for everything else.
func (s *Service) Set(ctx context.Context, key string, value any) (*types.Setting, error) {
	st := Encode(key, value)
	if err := s.repo.SetSetting(ctx, st); err != nil {
		return nil, err
	}
	s.log.Debug(ctx, "setting saved", "key", key, "type", st.ValueType)
	return st, nil
}

// SetTyped stores text under key with an explicit value type. The text must
// parse as that type.
func (s *Service) SetTyped(ctx context.Context, key, value, valueType string) (*types.Setting, error) {
	st := &types.Setting{Key: key, Value: value, ValueType: valueType}
	if _, err := Decode(st); err != nil {
		return nil, err
	}
	if err := s.repo.SetSetting(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Delete removes key. A missing key is not an error.
func (s *Service) Delete(ctx context.Context, key string) error {
	return s.repo.DeleteSetting(ctx, key)
}

// List returns all settings.
func (s *Service) List(ctx context.Context) ([]*types.Setting, error) {
	return s.repo.ListSettings(ctx)
}

// Encode converts a Go value into a setting row.
func Encode(key string, value any) *types.Setting {
	st := &types.Setting{Key: key}
	switch v := value.(type) {
	case bool:
		st.Value, st.ValueType = strconv.FormatBool(v), types.ValueTypeBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		st.Value, st.ValueType = fmt.Sprint(v), types.ValueTypeInt
	case float32:
		st.Value, st.ValueType = strconv.FormatFloat(float64(v), 'f', -1, 32), types.ValueTypeFloat
	case float64:
		st.Value, st.ValueType = strconv.FormatFloat(v, 'f', -1, 64), types.ValueTypeFloat
	case string:
		st.Value, st.ValueType = v, types.ValueTypeStr
	default:
		st.Value, st.ValueType = fmt.Sprint(v), types.ValueTypeStr
	}
	return st
}

// Decode returns the typed value of a setting row.
func Decode(st *types.Setting) (any, error) {
	switch st.ValueType {
	case types.ValueTypeBool:
		return strings.EqualFold(strings.TrimSpace(st.Value), "true"), nil
	case types.ValueTypeInt:
		n, err := strconv.Atoi(strings.TrimSpace(st.Value))
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w: %q is not an int", st.Key, types.ErrInvalidValueType, st.Value)
		}
		return n, nil
	case types.ValueTypeFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(st.Value), 64)
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w: %q is not a float", st.Key, types.ErrInvalidValueType, st.Value)
		}
		return f, nil
	case types.ValueTypeStr:
		return st.Value, nil
	}
	return nil, fmt.Errorf("setting %s: %w: %s", st.Key, types.ErrInvalidValueType, st.ValueType)
}

// ParseValue infers a typed value from command-line text: true/false,
// integers and decimals are recognized, anything else stays text.
func ParseValue(text string) any {
	t := strings.TrimSpace(text)
	switch strings.ToLower(t) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(t); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	return text
}

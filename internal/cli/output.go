package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/petar-djukic/cabplanner/internal/notice"
)

// stdinIsTerminal is a test seam for term.IsTerminal.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// printJSON writes v as indented JSON.
func (a *app) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal output: %w", err))
	}
	fmt.Fprintln(a.out, string(data))
	return nil
}

// printTable writes rows under header with aligned columns.
func (a *app) printTable(header []string, rows [][]string) error {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(w, strings.Join(r, "\t"))
	}
	return w.Flush()
}

// output prints v as JSON in JSON mode and calls text otherwise.
func (a *app) output(v any, text func() error) error {
	if a.jsonMode {
		return a.printJSON(v)
	}
	return text()
}

// noticeOutput is the JSON shape of an operation reported by a notice.
type noticeOutput struct {
	Notice notice.Notice `json:"notice"`
	Result any           `json:"result,omitempty"`
}

// printNotice reports the outcome of a controller call. A failed notice
// becomes a silent error carrying its exit code.
func (a *app) printNotice(n notice.Notice, result any) error {
	if a.jsonMode {
		if err := a.printJSON(noticeOutput{Notice: n, Result: result}); err != nil {
			return err
		}
	} else if n.Message != "" {
		w := a.out
		if n.Failed() {
			w = a.errOut
		}
		fmt.Fprintln(w, n.Message)
	}
	if !n.Failed() {
		return nil
	}
	err := n.Err
	if err == nil {
		err = errors.New(n.Message)
	}
	return &exitError{code: exitCode(err), err: err, silent: true}
}

// confirm asks a yes/no question on an interactive terminal. Without a
// terminal it refuses, so destructive commands need --yes in scripts.
func (a *app) confirm(prompt string) (bool, error) {
	if !a.isTerminal() {
		return false, userError(errors.New("refusing to delete without --yes on a non-interactive input"))
	}
	fmt.Fprintf(a.out, "%s [t/N] ", prompt)
	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "t", "tak", "y", "yes":
		return true, nil
	}
	return false, nil
}

// confirmDelete returns nil when deletion may proceed.
func (a *app) confirmDelete(yes bool, what string) error {
	if yes {
		return nil
	}
	ok, err := a.confirm(fmt.Sprintf("Delete %s?", what))
	if err != nil {
		return err
	}
	if !ok {
		return userError(errors.New("cancelled"))
	}
	return nil
}

func ptrInt(v int, set bool) *int {
	if !set {
		return nil
	}
	return &v
}

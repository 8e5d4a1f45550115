// Package cli implements the cabplanner command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/cabplanner/internal/colors"
	"github.com/petar-djukic/cabplanner/internal/controller"
	"github.com/petar-djukic/cabplanner/internal/logging"
	"github.com/petar-djukic/cabplanner/internal/notice"
	"github.com/petar-djukic/cabplanner/internal/paths"
	"github.com/petar-djukic/cabplanner/internal/store"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// app holds the global flags and the lazily opened store of one run.
type app struct {
	configDir string
	dataDir   string
	jsonMode  bool
	lang      string

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// isTerminal reports whether in is an interactive terminal.
	isTerminal func() bool

	cfg   *viper.Viper
	log   logging.Logger
	tr    *notice.Translator
	store *store.Store
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{
		in:         in,
		out:        out,
		errOut:     errOut,
		isTerminal: func() bool { return false },
		log:        logging.Nop(),
		tr:         notice.NewTranslator(""),
	}
}

// Execute runs cabplanner with the process arguments and returns the exit
// code.
func Execute() int {
	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	a.isTerminal = stdinIsTerminal
	return a.run(os.Args[1:])
}

// Run executes cabplanner with args and the given streams and returns the
// exit code. Input is never treated as a terminal.
func Run(args []string, in io.Reader, out, errOut io.Writer) int {
	return newApp(in, out, errOut).run(args)
}

func (a *app) run(args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	err := root.Execute()
	if cerr := a.close(); cerr != nil && err == nil {
		err = sysError(cerr)
	}
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if !errors.As(err, &ee) || !ee.silent {
		fmt.Fprintln(a.errOut, "Error:", err)
	}
	return exitCode(err)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "cabplanner",
		Short: "Kitchen cabinet order planner",
		Long: "Cabplanner keeps kitchen projects with their client data and cabinets,\n" +
			"computes cut parts from formula constants and writes cut-list reports.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.loadConfig()
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return userError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configDir, "config-dir", "", "configuration directory (default: $(CWD)/.cabplanner)")
	pf.StringVar(&a.dataDir, "data-dir", "", "data directory (default: $(CWD)/.cabplanner-db)")
	pf.BoolVar(&a.jsonMode, "json", false, "output as JSON")
	pf.StringVar(&a.lang, "lang", "", "message language: pl or en (default from config)")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newProjectCmd(a),
		newCabinetCmd(a),
		newCatalogCmd(a),
		newConstantCmd(a),
		newColorCmd(a),
		newSettingsCmd(a),
		newFormulaCmd(a),
		newReportCmd(a),
		newBackupCmd(a),
	)
	return root
}

// loadConfig reads config.yaml and sets up logging and messages.
func (a *app) loadConfig() error {
	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return sysError(err)
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	a.cfg = cfg
	a.log = logging.New(a.errOut, cfg.GetString(cfgKeyLogLevel), cfg.GetString(cfgKeyLogFormat))

	lang := a.lang
	if lang == "" {
		lang = cfg.GetString(cfgKeyLanguage)
	}
	a.tr = notice.NewTranslator(lang)
	return nil
}

// storeConfig returns the backend configuration of the run.
func (a *app) storeConfig() (types.Config, error) {
	var configDataDir string
	if a.cfg != nil {
		configDataDir = a.cfg.GetString(cfgKeyDataDir)
	}
	dataDir, err := paths.ResolveDataDir(a.dataDir, configDataDir)
	if err != nil {
		return types.Config{}, err
	}
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: dataDir}
	if a.cfg != nil {
		cfg.Backend = a.cfg.GetString(cfgKeyBackend)
		cfg.DSN = a.cfg.GetString(cfgKeyDSN)
	}
	return cfg, nil
}

// open attaches the store on first use.
func (a *app) open() (*store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	cfg, err := a.storeConfig()
	if err != nil {
		return nil, sysError(fmt.Errorf("resolve data dir: %w", err))
	}
	s := store.New(a.log)
	if err := s.Attach(cfg); err != nil {
		return nil, sysError(fmt.Errorf("attach store: %w", err))
	}
	a.store = s
	return s, nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Detach()
	a.store = nil
	return err
}

// colors returns the color service over the open store.
func (a *app) colors() (*colors.Service, error) {
	s, err := a.open()
	if err != nil {
		return nil, err
	}
	return colors.NewService(s, a.log), nil
}

// exitError carries the exit code of a failed command. Silent errors were
// already reported to the user.
type exitError struct {
	code   int
	err    error
	silent bool
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error {
	return &exitError{code: exitUserError, err: err}
}

func sysError(err error) error {
	return &exitError{code: exitSysError, err: err}
}

// exitCode maps err to a process exit code. Unclassified errors are user
// errors when they wrap a domain sentinel and system errors otherwise.
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if controller.IsUserError(err) {
		return exitUserError
	}
	return exitSysError
}

// exactArgs is cobra.ExactArgs reported as a user error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return userError(err)
		}
		return nil
	}
}

// rangeArgs is cobra.RangeArgs reported as a user error.
func rangeArgs(min, max int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.RangeArgs(min, max)(cmd, args); err != nil {
			return userError(err)
		}
		return nil
	}
}

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return userError(err)
	}
	return nil
}

package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/petar-djukic/cabplanner/internal/report"
	"github.com/petar-djukic/cabplanner/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "CABPLANNER"

	cfgKeyBackend       = "backend"
	cfgKeyDataDir       = "data_dir"
	cfgKeyDSN           = "dsn"
	cfgKeyLanguage      = "language"
	cfgKeyLogLevel      = "log.level"
	cfgKeyLogFormat     = "log.format"
	cfgKeyReportDir     = "report.output_dir"
	cfgKeyReportFormat  = "report.format"
	cfgKeyReportLogo    = "report.company_logo"
	cfgKeyFormulaScript = "formula.script"
)

// envKeys may be overridden by CABPLANNER_<KEY> variables, dots becoming
// underscores. data_dir is resolved by the paths package instead.
var envKeys = []string{
	cfgKeyBackend,
	cfgKeyDSN,
	cfgKeyLanguage,
	cfgKeyLogLevel,
	cfgKeyLogFormat,
	cfgKeyReportDir,
	cfgKeyReportFormat,
	cfgKeyReportLogo,
	cfgKeyFormulaScript,
}

// fileConfig is the layout of config.yaml.
type fileConfig struct {
	Backend  string        `yaml:"backend"`
	DataDir  string        `yaml:"data_dir,omitempty"`
	DSN      string        `yaml:"dsn,omitempty"`
	Language string        `yaml:"language"`
	Log      logConfig     `yaml:"log"`
	Report   reportConfig  `yaml:"report"`
	Formula  formulaConfig `yaml:"formula"`
}

type logConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type reportConfig struct {
	OutputDir   string `yaml:"output_dir,omitempty"`
	Format      string `yaml:"format"`
	CompanyLogo string `yaml:"company_logo,omitempty"`
}

type formulaConfig struct {
	Script string `yaml:"script,omitempty"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		Backend:  types.BackendSQLite,
		Language: "pl",
		Log:      logConfig{Level: "warn", Format: "text"},
		Report:   reportConfig{Format: report.FormatText},
	}
}

// loadConfig reads config.yaml from configDir, creating the directory and
// a default file on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := writeConfigIfMissing(filepath.Join(configDir, configFileExt), defaultFileConfig()); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	def := defaultFileConfig()
	v := viper.New()
	v.SetDefault(cfgKeyBackend, def.Backend)
	v.SetDefault(cfgKeyLanguage, def.Language)
	v.SetDefault(cfgKeyLogLevel, def.Log.Level)
	v.SetDefault(cfgKeyLogFormat, def.Log.Format)
	v.SetDefault(cfgKeyReportFormat, def.Report.Format)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing writes cfg to path unless the file exists.
func writeConfigIfMissing(path string, cfg fileConfig) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	header := "# cabplanner configuration\n"
	return os.WriteFile(path, append([]byte(header), data...), 0o644)
}

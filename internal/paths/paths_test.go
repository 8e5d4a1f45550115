package paths

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfigDir(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name   string
		flag   string
		envVal string
		want   string
	}{
		{name: "flag wins over env", flag: "/explicit/config", envVal: "/env/config", want: "/explicit/config"},
		{name: "env wins when flag empty", envVal: "/env/config", want: "/env/config"},
		{name: "cwd default when both empty", want: filepath.Join(cwd, DefaultConfigDirName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigDir, tt.envVal)
			got, err := ResolveConfigDir(tt.flag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDataDir(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name        string
		flag        string
		configValue string
		envVal      string
		want        string
	}{
		{name: "flag wins over all", flag: "/flag/data", configValue: "/config/data", envVal: "/env/data", want: "/flag/data"},
		{name: "config wins over env", configValue: "/config/data", envVal: "/env/data", want: "/config/data"},
		{name: "env wins when flag and config empty", envVal: "/env/data", want: "/env/data"},
		{name: "cwd default when nothing set", want: filepath.Join(cwd, DefaultDataDirName)},
		{name: "relative flag made absolute", flag: "rel/data", want: filepath.Join(cwd, "rel", "data")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvDataDir, tt.envVal)
			got, err := ResolveDataDir(tt.flag, tt.configValue)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveOutputDir(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	got, err := ResolveOutputDir("", "")
	require.NoError(t, err)
	assert.Equal(t, cwd, got)

	got, err = ResolveOutputDir("", "/reports")
	require.NoError(t, err)
	assert.Equal(t, "/reports", got)
}

func TestResolveGetwdError(t *testing.T) {
	orig := getwd
	t.Cleanup(func() { getwd = orig })
	getwd = func() (string, error) { return "", errors.New("no cwd") }

	t.Setenv(EnvDataDir, "")
	_, err := ResolveDataDir("", "")
	assert.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfgen-dev/cfgen/internal/command"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
version: 1
variables:
  APP: myservice
output:
  color: never
  verbosity: verbose
commands:
  build: "make build ${APP}"
  deploy:
    help: Deploy a service
    run: ./deploy.sh {{env}}
    options:
      env: '"dev" | "prod"'
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "myservice", cfg.Variables["APP"])
	assert.Equal(t, "never", cfg.Output.Color)
	assert.Equal(t, "verbose", cfg.Output.Verbosity)

	require.Len(t, cfg.Commands, 2)
	sc, ok := cfg.Commands["build"].(*command.StringCommand)
	require.True(t, ok)
	assert.Equal(t, "make build myservice", sc.Run, "config variables expand into command text")
	assert.IsType(t, &command.TypedCommand{}, cfg.Commands["deploy"])
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
commands:
  build: "make build"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, CurrentConfigVersion, cfg.Version)
	assert.Equal(t, "auto", cfg.Output.Color)
	assert.Equal(t, "normal", cfg.Output.Verbosity)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), ConfigFileName))

	require.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "commands: [unclosed")

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_BadCommandDeclaration(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
commands:
  bad:
    help: no run or commands
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declares neither 'run' nor 'commands'")
}

func TestFind_ExplicitPath(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "version: 1\n")

	found, err := Find(path)
	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestFind_ExplicitPathMissing(t *testing.T) {
	_, err := Find(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadOrDefault_ExplicitPath(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
commands:
  build: "make build"
`)

	cfg, err := LoadOrDefault(path)
	require.NoError(t, err)
	assert.Contains(t, cfg.Commands, "build")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, CurrentConfigVersion, cfg.Version)
	assert.NotNil(t, cfg.Variables)
	assert.NotNil(t, cfg.Commands)
	assert.Empty(t, cfg.Commands)
	assert.NoError(t, Validate(cfg))
}

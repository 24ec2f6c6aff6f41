package di

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.Nil(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "di.yaml", `
unregistered_resolution: generics_only
named_resolution_failure: attempt_unnamed
messenger: true
log_level: warn
`)

	cfg, err := LoadConfig(path)
	require.Nil(t, err)
	require.Equal(t, Config{
		UnregisteredResolution: "generics_only",
		NamedResolutionFailure: "attempt_unnamed",
		Messenger:              true,
		LogLevel:               "warn",
	}, cfg)

	options, err := cfg.ResolveOptions()
	require.Nil(t, err)
	require.Equal(t, ResolveOptions{
		UnregisteredResolution: GenericsOnly,
		NamedResolutionFailure: AttemptUnnamedResolution,
	}, options)

	opts, err := cfg.Options()
	require.Nil(t, err)
	require.Len(t, opts, 3)

	c, err := New(opts...)
	require.Nil(t, err)
	require.Equal(t, options, c.DefaultResolveOptions())
	require.True(t, c.IsRegistered(TypeOf[MessengerHub](), ""))
	require.False(t, c.Logger().Core().Enabled(-1), "debug is disabled")

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NotNil(t, err)

	_, err = LoadConfig(writeFile(t, "invalid.yaml", "messenger: [not a bool"))
	require.NotNil(t, err)
}

func TestConfigFromEnv(t *testing.T) {
	path := writeFile(t, ".env", `
DI_UNREGISTERED_RESOLUTION=fail
DI_NAMED_RESOLUTION_FAILURE=attempt_unnamed
DI_MESSENGER=true
`)

	// variables set in the environment are not overridden by the file
	t.Setenv(EnvNamedResolutionFailure, "fail")
	t.Setenv(EnvUnregisteredResolution, "")
	t.Setenv(EnvMessenger, "")
	t.Setenv(EnvLogLevel, "")
	os.Unsetenv(EnvUnregisteredResolution)
	os.Unsetenv(EnvMessenger)
	os.Unsetenv(EnvLogLevel)

	cfg, err := ConfigFromEnv(path, filepath.Join(t.TempDir(), "missing.env"))
	require.Nil(t, err)
	require.Equal(t, Config{
		UnregisteredResolution: "fail",
		NamedResolutionFailure: "fail",
		Messenger:              true,
	}, cfg)

	opts, err := cfg.Options()
	require.Nil(t, err)
	require.Len(t, opts, 2, "no logger without a log level")
}

func TestConfigFromEnvInvalidMessenger(t *testing.T) {
	t.Setenv(EnvMessenger, "maybe")

	_, err := ConfigFromEnv(filepath.Join(t.TempDir(), "missing.env"))
	require.NotNil(t, err)
}

func TestInvalidConfig(t *testing.T) {
	_, err := Config{UnregisteredResolution: "sometimes"}.Options()
	require.NotNil(t, err)

	_, err = Config{NamedResolutionFailure: "retry"}.Options()
	require.NotNil(t, err)

	_, err = Config{LogLevel: "loud"}.Options()
	require.NotNil(t, err)

	opts, err := Config{}.Options()
	require.Nil(t, err)
	require.Len(t, opts, 1)
}

func TestParseResolutionActions(t *testing.T) {
	for _, a := range []UnregisteredResolutionAction{AttemptResolve, FailUnregistered, GenericsOnly} {
		parsed, err := ParseUnregisteredResolutionAction(a.String())
		require.Nil(t, err)
		require.Equal(t, a, parsed)
	}

	for _, a := range []NamedResolutionFailureAction{FailNamed, AttemptUnnamedResolution} {
		parsed, err := ParseNamedResolutionFailureAction(a.String())
		require.Nil(t, err)
		require.Equal(t, a, parsed)
	}

	a, err := ParseUnregisteredResolutionAction(" Generics_Only ")
	require.Nil(t, err)
	require.Equal(t, GenericsOnly, a)

	require.Equal(t, DefaultResolveOptions(), ResolveOptions{})
}

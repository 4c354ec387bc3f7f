package configuration_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"skallars-social/infrastructure/configuration"
)

func TestLoadEnvFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.env")
	content := "# comment\n\nPLAIN_KEY=plain\nQUOTED_KEY=\"quoted value\"\nEXISTING_KEY=from-file\nno equals sign here\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	os.Unsetenv("PLAIN_KEY")
	os.Unsetenv("QUOTED_KEY")
	t.Cleanup(func() {
		os.Unsetenv("PLAIN_KEY")
		os.Unsetenv("QUOTED_KEY")
	})
	t.Setenv("EXISTING_KEY", "from-env")

	configuration.LoadEnvFromFile(path, filepath.Join(dir, "missing.env"))

	require.Equal(t, "plain", os.Getenv("PLAIN_KEY"))
	require.Equal(t, "quoted value", os.Getenv("QUOTED_KEY"))
	// An already-exported variable always wins over the file.
	require.Equal(t, "from-env", os.Getenv("EXISTING_KEY"))
}

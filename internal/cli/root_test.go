package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "journey", cmd.Use)
	assert.Contains(t, cmd.Long, "layout engine")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"build", "show", "list", "validate", "test"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("quiet"))
}

func TestBuildCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	build, _, err := cmd.Find([]string{"build"})
	require.NoError(t, err)

	for _, name := range []string{"policy", "db", "all"} {
		assert.NotNil(t, build.Flags().Lookup(name), "flag %s", name)
	}
}

func TestRoot_InvalidFormat(t *testing.T) {
	t.Chdir(t.TempDir())

	_, errOut, err := execute(NewRootCommand(), "", "build", "-", "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid format "xml"`)
	assert.Contains(t, errOut, "Error [E001]")
}

func TestRoot_ConfigFileSetsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "journey.cue"), []byte(`format: "dot"`+"\n"), 0644))

	out, _, err := execute(NewRootCommand(), `[{"state":"A"}]`, "build", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "digraph journey {")
}

func TestRoot_FlagOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "journey.cue"), []byte(`format: "dot"`+"\n"), 0644))

	out, _, err := execute(NewRootCommand(), `[{"state":"A"}]`, "build", "-", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "=== Nodes ===")
}

func TestRoot_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "journey.cue"), []byte(`recurrence: "rewind"`+"\n"), 0644))

	_, errOut, err := execute(NewRootCommand(), `[]`, "build", "-")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, errOut, ErrCodeConfig)
}

func TestRoot_VerboseLogsToStderr(t *testing.T) {
	t.Chdir(t.TempDir())

	out, errOut, err := execute(NewRootCommand(),
		`[{"state":"Build","branch":"a","artifact":"1.0.0-2024-01-01-x"},{"state":"Deployment","additional_info":"1.0.0-2024-01-01-x"}]`,
		"build", "-", "-vv", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, errOut, "deployment attributed")
	assert.NotContains(t, out, "deployment attributed")
}

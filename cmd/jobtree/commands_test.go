package jobtree

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidmrtn/jobtree/pkg/config"
	"github.com/davidmrtn/jobtree/pkg/relocate"
)

// setupCLI points the CLI at a throwaway database and a missing config file,
// which puts jobtree in single-user mode with the test user as admin.
func setupCLI(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvDB, filepath.Join(dir, "jobtree.db"))
	t.Setenv(config.EnvConfig, filepath.Join(dir, "missing.toml"))
	t.Setenv(config.EnvUser, "alice")
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestMoveCmd(t *testing.T) {
	setupCLI(t)

	_, err := runCmd(t, "mkdir", "team-a/services")
	require.NoError(t, err)
	_, err = runCmd(t, "add", "app-build")
	require.NoError(t, err)

	out, err := runCmd(t, "move", "team-a/services", "app-build")
	require.NoError(t, err)
	assert.Contains(t, out, "[SUCCESS]: Command finished")
	assert.Contains(t, out, "app-build: Successfully moved to 'team-a/services'. Check 'team-a/services/app-build'")

	// Namespace state survives across invocations.
	out, err = runCmd(t, "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "app-build")
	assert.Contains(t, out, "services/")
}

func TestLsCmdSubtree(t *testing.T) {
	setupCLI(t)

	_, err := runCmd(t, "mkdir", "team-a/services")
	require.NoError(t, err)
	_, err = runCmd(t, "add", "team-a/services/app-build")
	require.NoError(t, err)

	out, err := runCmd(t, "ls", "team-a/services")
	require.NoError(t, err)
	assert.Contains(t, out, "app-build")

	_, err = runCmd(t, "ls", "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such item 'ghost'")
}

func TestMoveCmdToRoot(t *testing.T) {
	setupCLI(t)

	_, err := runCmd(t, "mkdir", "team-a")
	require.NoError(t, err)
	_, err = runCmd(t, "add", "team-a/app-build")
	require.NoError(t, err)

	out, err := runCmd(t, "move", "jenkins", "team-a/app-build")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully moved to 'jenkins'. Check 'app-build'")
}

func TestMoveCmdMissingDestination(t *testing.T) {
	setupCLI(t)

	_, err := runCmd(t, "add", "app-build")
	require.NoError(t, err)

	out, err := runCmd(t, "move", "nowhere", "app-build")
	require.Error(t, err)
	assert.Contains(t, out, "[FAILURE]: Error validating inputs")
	assert.Contains(t, out, "nowhere: Destination folder does not exist")
	assert.True(t, IsReported(err))
	assert.Equal(t, relocate.CodeValidation, ExitCode(err))
}

func TestMoveCmdCreateDestination(t *testing.T) {
	setupCLI(t)

	_, err := runCmd(t, "add", "app-build")
	require.NoError(t, err)

	out, err := runCmd(t, "move", "--create", "team-b/incoming", "app-build")
	require.NoError(t, err)
	assert.Contains(t, out, "[SUCCESS]: Command finished")

	out, err = runCmd(t, "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "team-b/")
	assert.Contains(t, out, "incoming/")
}

func TestMoveCmdUnknownItem(t *testing.T) {
	setupCLI(t)

	_, err := runCmd(t, "mkdir", "team-a")
	require.NoError(t, err)

	_, err = runCmd(t, "move", "team-a", "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such item 'ghost'")
	assert.False(t, IsReported(err))
	assert.Equal(t, relocate.CodeError, ExitCode(err))
}

func TestMkdirCmd(t *testing.T) {
	setupCLI(t)

	out, err := runCmd(t, "mkdir", "a/b/c")
	require.NoError(t, err)
	assert.Contains(t, out, "Created folder 'a/b/c'")
}

func TestAddCmdWithConfigFile(t *testing.T) {
	setupCLI(t)

	configPath := filepath.Join(t.TempDir(), "config.xml")
	require.NoError(t, os.WriteFile(configPath, []byte("<project><disabled>false</disabled></project>"), 0o644))

	out, err := runCmd(t, "add", "--config", configPath, "app-build")
	require.NoError(t, err)
	assert.Contains(t, out, "Created job 'app-build'")
}

func TestAddCmdMissingParent(t *testing.T) {
	setupCLI(t)

	_, err := runCmd(t, "add", "no-such-folder/app-build")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such folder 'no-such-folder'")
}

func TestDestinationsCmd(t *testing.T) {
	setupCLI(t)

	_, err := runCmd(t, "mkdir", "team-a")
	require.NoError(t, err)
	_, err = runCmd(t, "add", "app-build")
	require.NoError(t, err)

	out, err := runCmd(t, "destinations", "app-build")
	require.NoError(t, err)
	assert.Contains(t, out, "jenkins")
	assert.Contains(t, out, "team-a")
}

func TestImportCmd(t *testing.T) {
	setupCLI(t)

	seed := `items:
  - name: team-a
    children:
      - name: app-build
        builds:
          - number: 1
            status: SUCCESS
`
	seedPath := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte(seed), 0o644))

	out, err := runCmd(t, "import", seedPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Namespace imported")

	out, err = runCmd(t, "history", "team-a/app-build")
	require.NoError(t, err)
	assert.Contains(t, out, "#1")
	assert.Contains(t, out, "SUCCESS")
}

func TestHistoryCmdNoBuilds(t *testing.T) {
	setupCLI(t)

	_, err := runCmd(t, "add", "app-build")
	require.NoError(t, err)

	out, err := runCmd(t, "history", "app-build")
	require.NoError(t, err)
	assert.Contains(t, out, "No builds recorded for 'app-build'")
}

func TestVersionCmd(t *testing.T) {
	out, err := runCmd(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "jobtree version")
}

func TestRootCmdWithoutSubcommand(t *testing.T) {
	_, err := runCmd(t)
	require.Error(t, err)
	assert.Equal(t, relocate.CodeError, ExitCode(err))
}

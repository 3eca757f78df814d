package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fentz26/robodesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t      *testing.T
	config string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := fmt.Sprintf(`data_dir: %s
log:
  level: warn
roster:
  - username: Davi
    password: jesuscura10
    admin: true
  - username: Ana
    password: robotica
`, dir)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return &cli{t: t, config: path}
}

func (c *cli) runWithInput(input string, args ...string) (string, error) {
	c.t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"--config", c.config}, args...)
	err := run(args, strings.NewReader(input), &stdout, &stderr)
	return stdout.String(), err
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	return c.runWithInput("", args...)
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "robodesk %s", strings.Join(args, " "))
	return out
}

func createdID(t *testing.T, out string) string {
	t.Helper()
	i := strings.LastIndex(out, ": ")
	require.GreaterOrEqual(t, i, 0, "unexpected output %q", out)
	return strings.TrimSpace(out[i+2:])
}

func TestEnumsNeedsNoSession(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("enums")
	assert.Contains(t, out, "Innovation Project")
	assert.Contains(t, out, "improvement")
	assert.Contains(t, out, "originalidade")
}

func TestProtectedCommandsRequireLogin(t *testing.T) {
	c := newCLI(t)
	for _, args := range [][]string{
		{"whoami"},
		{"activity"},
		{"task", "list"},
		{"attachment", "list"},
		{"eval", "list"},
	} {
		_, err := c.run(args...)
		assert.ErrorIs(t, err, errNotSignedIn, "robodesk %s", strings.Join(args, " "))
	}
}

func TestLoginPersistsAcrossInvocations(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("login", "--user", "Davi", "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")

	out := c.mustRun("login", "--user", "Davi", "--password", "jesuscura10")
	assert.Contains(t, out, "Signed in as Davi")
	assert.Equal(t, "Davi (admin)\n", c.mustRun("whoami"))

	out = c.mustRun("logout")
	assert.Contains(t, out, "Signed out Davi")
	_, err = c.run("whoami")
	assert.ErrorIs(t, err, errNotSignedIn)

	assert.Contains(t, c.mustRun("logout"), "Not signed in")
}

func TestLoginReadsPasswordFromStdin(t *testing.T) {
	c := newCLI(t)
	out, err := c.runWithInput("robotica\n", "login", "--user", "Ana")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Ana")
	assert.Equal(t, "Ana (member)\n", c.mustRun("whoami"))
}

func TestActivityVisibility(t *testing.T) {
	c := newCLI(t)
	c.mustRun("login", "--user", "Ana", "--password", "robotica")
	c.mustRun("logout")
	c.mustRun("login", "--user", "Davi", "--password", "jesuscura10")

	out := c.mustRun("activity")
	assert.Contains(t, out, "Ana")
	assert.Contains(t, out, "Davi")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "Davi")
	assert.Contains(t, lines[1], "login")

	out = c.mustRun("activity", "--user", "Ana")
	assert.NotContains(t, out, "Davi")

	c.mustRun("login", "--user", "Ana", "--password", "robotica")
	out = c.mustRun("activity")
	assert.NotContains(t, out, "Davi")
	_, err := c.run("activity", "--user", "Davi")
	assert.Error(t, err)
}

func TestTaskLifecycle(t *testing.T) {
	c := newCLI(t)
	c.mustRun("login", "--user", "Davi", "--password", "jesuscura10")

	out := c.mustRun("task", "add", "--name", "Build gripper", "--priority", "High", "--area", "Build,Programming", "--due", "2024-05-01")
	id := createdID(t, out)
	short := id[:8]

	out = c.mustRun("task", "list")
	assert.Contains(t, out, short)
	assert.Contains(t, out, "Build gripper")
	assert.Contains(t, out, "Planning")

	out = c.mustRun("task", "move", short, "--next")
	assert.Contains(t, out, "To Do")
	out = c.mustRun("task", "move", short, "review")
	assert.Contains(t, out, "Review")

	out = c.mustRun("task", "list", "--column", "review")
	assert.Contains(t, out, "Build gripper")
	assert.Contains(t, c.mustRun("task", "list", "--column", "todo"), "No tasks found")

	_, err := c.run("task", "edit", short, "--priority", "Urgent")
	assert.ErrorIs(t, err, models.ErrValidation)

	out = c.mustRun("task", "edit", short, "--name", "Build claw", "--due", "")
	assert.Contains(t, out, "Build claw")
	assert.Contains(t, out, "Due:      -")
	assert.Contains(t, out, "Build, Programming")

	out = c.mustRun("task", "show", id)
	assert.Contains(t, out, "Priority: High")

	c.mustRun("task", "delete", short)
	_, err = c.run("task", "show", id)
	assert.Error(t, err)
}

func TestTaskAddRejectsInvalidInput(t *testing.T) {
	c := newCLI(t)
	c.mustRun("login", "--user", "Davi", "--password", "jesuscura10")

	_, err := c.run("task", "add", "--name", "Pitch", "--area", "Marketing")
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Contains(t, c.mustRun("task", "list"), "No tasks found")
}

func TestAttachmentCommands(t *testing.T) {
	c := newCLI(t)
	c.mustRun("login", "--user", "Davi", "--password", "jesuscura10")

	base := []string{"attachment", "add", "--name", "Left run", "--run-exit", "left", "--missions", "M01",
		"--points", "40", "--avg-time", "30", "--swap-time", "5"}

	_, err := c.run(append(base, "--precision", "101")...)
	assert.ErrorIs(t, err, models.ErrValidation)

	id := createdID(t, c.mustRun(append(base, "--precision", "100")...))
	out := c.mustRun("attachment", "list")
	assert.Contains(t, out, "Left run")
	assert.Contains(t, out, "100%")

	c.mustRun("attachment", "edit", id[:8], "--points", "55")
	assert.Contains(t, c.mustRun("attachment", "list"), "55")

	c.mustRun("attachment", "delete", id[:8])
	assert.Contains(t, c.mustRun("attachment", "list"), "No attachments found")
}

func TestEvalCommands(t *testing.T) {
	c := newCLI(t)
	c.mustRun("login", "--user", "Davi", "--password", "jesuscura10")

	_, err := c.run("eval", "add", "--name", "Pitch", "--score", "tema=11")
	assert.ErrorIs(t, err, models.ErrValidation)

	id := createdID(t, c.mustRun("eval", "add", "--name", "Pitch", "--score", "tema=7"))

	out := c.mustRun("eval", "score", id[:8], "clareza", "9")
	assert.Contains(t, out, "Total: 16")
	assert.Contains(t, out, "Average: 8.00")

	_, err = c.run("eval", "score", id[:8], "estilo", "5")
	assert.ErrorIs(t, err, models.ErrValidation)

	out = c.mustRun("eval", "score", id[:8], "tema", "--clear")
	assert.Contains(t, out, "Total: 9")

	out = c.mustRun("eval", "list")
	assert.Contains(t, out, "1/6")

	c.mustRun("eval", "delete", id[:8])
	assert.Contains(t, c.mustRun("eval", "list"), "No evaluations found")
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "robodesk", "config.yaml")
	var stdout bytes.Buffer

	require.NoError(t, run([]string{"--config", path, "config", "init"}, strings.NewReader(""), &stdout, &stdout))
	assert.Contains(t, stdout.String(), "Wrote")
	assert.Error(t, run([]string{"--config", path, "config", "init"}, strings.NewReader(""), &stdout, &stdout))

	stdout.Reset()
	require.NoError(t, run([]string{"--config", path, "config", "show"}, strings.NewReader(""), &stdout, &stdout))
	assert.Contains(t, stdout.String(), "session_backend: sqlite")
	assert.Contains(t, stdout.String(), "username: Davi")
	assert.NotContains(t, stdout.String(), "jesuscura10")
}

func TestResolveID(t *testing.T) {
	ids := []string{"abc123", "abd456", "xyz"}

	got, err := resolveID("task", "abc", ids)
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)

	_, err = resolveID("task", "ab", ids)
	assert.Error(t, err)

	got, err = resolveID("task", "missing", ids)
	require.NoError(t, err)
	assert.Equal(t, "missing", got)
}

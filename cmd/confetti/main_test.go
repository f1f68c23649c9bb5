package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "confetti/internal/platform/errors"
)

var sample = filepath.Join("..", "..", "internal", "modules", "conference", "adapter", "out", "testdata", "devfest.yaml")

func run(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--data-dir", dataDir}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestImportAndList(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	out, err := run(t, dir, "import", sample)
	require.NoError(t, err)
	assert.Equal(t, "imported DevFest Nantes 2024 (devfest2024) sessions=4 speakers=2\n", out)

	out, err = run(t, dir, "conferences")
	require.NoError(t, err)
	assert.Contains(t, out, "2024\n  devfest2024\tDevFest Nantes 2024\tEurope/Paris\n")

	out, err = run(t, dir, "--conference", "devfest2024", "speakers")
	require.NoError(t, err)
	assert.Equal(t, "Ada Martin (Acme)\nBo Chen (Initech)\n", out)
}

func TestBookmarksFlow(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	_, err := run(t, dir, "import", sample)
	require.NoError(t, err)

	_, err = run(t, dir, "--conference", "devfest2024", "bookmarks", "add", "s-keynote")
	require.NoError(t, err)
	out, err := run(t, dir, "--conference", "devfest2024", "bookmarks", "toggle", "s-wrap")
	require.NoError(t, err)
	assert.Equal(t, "bookmarked s-wrap\n", out)

	out, err = run(t, dir, "--conference", "devfest2024", "sessions")
	require.NoError(t, err)
	assert.Contains(t, out, "* 09:00-10:00  s-keynote  Opening keynote [Main hall]")
	assert.Contains(t, out, "  10:30-11:15  s-kmp  Sharing logic with KMP [Room 1]")

	out, err = run(t, dir, "--conference", "devfest2024", "bookmarks", "--at", "2024-10-17T12:00")
	require.NoError(t, err)
	assert.Equal(t, "2 bookmarks as of 2024-10-17 12:00\n"+
		"Upcoming\n  Fri 17:00  s-wrap  Wrap-up\n"+
		"Past\n  Thu 09:00  s-keynote  Opening keynote\n", out)

	exportDir := filepath.Join(dir, "notes")
	out, err = run(t, dir, "--conference", "devfest2024", "bookmarks", "export", exportDir)
	require.NoError(t, err)
	assert.Contains(t, out, "devfest-nantes-2024-bookmarks.md upcoming=0 past=2")
	assert.FileExists(t, filepath.Join(exportDir, "devfest-nantes-2024-bookmarks.md"))
}

func TestBookmarksNeedConference(t *testing.T) {
	t.Parallel()
	_, err := run(t, t.TempDir(), "bookmarks")
	require.ErrorIs(t, err, apperrors.ErrConferenceRequired)
}

func TestAuthCommands(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	out, err := run(t, dir, "auth", "whoami")
	require.NoError(t, err)
	assert.Equal(t, "not signed in\n", out)

	out, err = run(t, dir, "auth", "signin", "Ada", "Martin", "--email", "ada@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "signed in as Ada Martin (")

	out, err = run(t, dir, "auth", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada Martin <ada@example.com>")

	_, err = run(t, dir, "auth", "signout")
	require.NoError(t, err)
	out, err = run(t, dir, "auth", "whoami")
	require.NoError(t, err)
	assert.Equal(t, "not signed in\n", out)
}

func TestConfigInitHonoursFlags(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	out, err := run(t, dir, "--conference", "devfest2024", "--clock-interval", "30s", "config", "init")
	require.NoError(t, err)
	assert.Equal(t, "wrote "+filepath.Join(dir, "config.toml")+"\n", out)
	payload, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(payload), "devfest2024")

	out, err = run(t, dir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "conference=devfest2024\n")
	assert.Contains(t, out, "clock_interval=30s\n")

	_, err = run(t, dir, "--clock-interval", "10ms", "config", "show")
	require.Error(t, err)
}

package cmdutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/quickopen/internal/config"
	"github.com/runger/quickopen/internal/source"
	"github.com/runger/quickopen/internal/storage"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	dir := t.TempDir()
	return &config.Paths{
		ConfigDir:  filepath.Join(dir, "config", "quickopen"),
		DataDir:    filepath.Join(dir, "data", "quickopen"),
		CacheDir:   filepath.Join(dir, "cache", "quickopen"),
		ConfigHome: filepath.Join(dir, "config"),
		DataHome:   filepath.Join(dir, "data"),
	}
}

func openEnv(t *testing.T, paths *config.Paths, logs *bytes.Buffer) *Env {
	t.Helper()
	env, err := Open(paths, Options{LogOutput: logs})
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	return env
}

func TestOpen_Defaults(t *testing.T) {
	var logs bytes.Buffer
	env := openEnv(t, testPaths(t), &logs)

	assert.Equal(t, config.DefaultConfig().Sources, env.Config.Sources)
	assert.NotNil(t, env.Logger)
	assert.NotNil(t, env.Store)
}

func TestOpen_MalformedConfigLogsWarning(t *testing.T) {
	paths := testPaths(t)
	require.NoError(t, os.MkdirAll(paths.ConfigDir, 0o755))
	require.NoError(t, os.WriteFile(paths.ConfigFile(), []byte("sources: [oops"), 0o644))

	var logs bytes.Buffer
	env := openEnv(t, paths, &logs)

	assert.True(t, env.Config.Sources.IncludeRecentFiles)
	assert.Contains(t, logs.String(), "config unreadable")
}

func TestOpen_NoStore(t *testing.T) {
	var logs bytes.Buffer
	env, err := Open(testPaths(t), Options{LogOutput: &logs, NoStore: true})
	require.NoError(t, err)
	defer env.Close()

	assert.Nil(t, env.Store)
	assert.Len(t, env.Registry(), 1)
	assert.Error(t, env.Record(t.Context(), "/tmp/x", ""))
	assert.NoError(t, env.Journal(t.Context(), JournalEntry{SessionID: "s"}))
}

func TestOpen_LogToFile(t *testing.T) {
	paths := testPaths(t)
	env, err := Open(paths, Options{LogToFile: true, NoStore: true})
	require.NoError(t, err)

	env.Logger.Info("hello")
	require.NoError(t, env.Close())

	data, err := os.ReadFile(paths.LogFile())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"ts":`)
}

func TestRecord_FeedsRegistry(t *testing.T) {
	var logs bytes.Buffer
	env := openEnv(t, testPaths(t), &logs)

	file := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	require.NoError(t, env.Record(t.Context(), file, "Notes"))

	res, err := source.RecentFiles(t.Context(), env.Registry(), source.RecentOptions{
		Group: env.Config.Picker.RecentGroup,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{file}, res.Paths)
	assert.Equal(t, "Notes", res.Names[file])
}

func TestRecord_RelativePathRejected(t *testing.T) {
	var logs bytes.Buffer
	env := openEnv(t, testPaths(t), &logs)

	err := env.Record(t.Context(), "relative.txt", "")
	require.Error(t, err)
	assert.Contains(t, logs.String(), "recent registry write failed")
}

func TestJournal(t *testing.T) {
	var logs bytes.Buffer
	env := openEnv(t, testPaths(t), &logs)

	started := time.Now().Add(-time.Second)
	require.NoError(t, env.Journal(t.Context(), JournalEntry{
		SessionID:  "abc",
		Started:    started,
		Candidates: 3,
		MatchMode:  "fuzzy",
		Outcome:    storage.OutcomeActivated,
		Path:       "/tmp/a.txt",
	}))

	got, err := env.Store.GetSession(t.Context(), "abc")
	require.NoError(t, err)
	assert.Equal(t, storage.OutcomeActivated, got.Outcome)
	assert.Equal(t, "/tmp/a.txt", got.ActivatedPath)
	assert.Equal(t, 3, got.Candidates)
	require.NotNil(t, got.EndedAtUnixMs)
}

func TestDeps(t *testing.T) {
	var logs bytes.Buffer
	paths := testPaths(t)
	env := openEnv(t, paths, &logs)

	deps := env.Deps(source.StaticDocuments{"/tmp/a.txt"})
	assert.Equal(t, paths.UserDirsFile(), deps.UserDirsFile)
	assert.Equal(t, paths.BookmarksFiles(), deps.BookmarksFiles)
	assert.NotNil(t, deps.Recent)
	assert.Equal(t, []string{"/tmp/a.txt"}, deps.Documents.OpenDocuments())
}

package sequencer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoframe-entrypoint/internal/config"
	"photoframe-entrypoint/internal/documents"
	"photoframe-entrypoint/internal/legacy"
	"photoframe-entrypoint/internal/testutil"
	"photoframe-entrypoint/internal/volume"
)

// stubDBTool writes a database tool stand-in that records invocations and,
// in create mode, actually creates the database file like the real tool.
func stubDBTool(t *testing.T, dir, dbFile string, failCreate bool) (tool, argsFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub tool relies on /bin/sh")
	}

	tool = filepath.Join(dir, "db_manager")
	argsFile = filepath.Join(dir, "invocations.txt")

	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString("echo \"$@\" >> " + argsFile + "\n")
	b.WriteString("if [ \"$1\" != \"--migrate\" ]; then\n")
	if failCreate {
		b.WriteString("  exit 1\n")
	} else {
		b.WriteString("  touch " + dbFile + "\n")
	}
	b.WriteString("fi\n")
	b.WriteString("exit 0\n")
	require.NoError(t, os.WriteFile(tool, []byte(b.String()), 0o755))
	return tool, argsFile
}

func invocations(t *testing.T, argsFile string) []string {
	t.Helper()
	data, err := os.ReadFile(argsFile)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func newTestSequencer(t *testing.T, failCreate bool) (*Sequencer, string, string) {
	t.Helper()

	root := t.TempDir()
	opts := config.DefaultOptions()
	opts.DataDir = root
	opts.DirMode = "0755"

	dbFile := filepath.Join(root, "db", "photoframe.db")
	tool, argsFile := stubDBTool(t, t.TempDir(), dbFile, failCreate)
	opts.DBToolCommand = []string{tool}

	seq := New(afero.NewOsFs(), opts)
	// The fixed /app paths are not reachable from a test; keep migration
	// exercised through an explicit table where needed.
	seq.Mappings = nil
	return seq, root, argsFile
}

func TestRunFreshVolume(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	seq, root, argsFile := newTestSequencer(t, false)
	ctx, _ := testutil.LoggingContext(t)

	require.NoError(t, seq.Run(ctx))

	p := seq.Paths()
	for _, dir := range p.Directories() {
		info, err := os.Stat(dir)
		require.NoError(t, err, "expected %s to exist", dir)
		assert.True(t, info.IsDir())
	}

	markerData, err := os.ReadFile(filepath.Join(root, volume.MarkerFilename))
	require.NoError(t, err)
	var marker volume.Marker
	require.NoError(t, json.Unmarshal(markerData, &marker))
	assert.False(t, marker.CreatedAt.IsZero())

	inv := invocations(t, argsFile)
	require.Len(t, inv, 1)
	assert.Empty(t, inv[0], "fresh volume invokes create mode")

	for _, doc := range documents.Registry() {
		exists, err := afero.Exists(afero.NewOsFs(), filepath.Join(p.ConfigDir, doc.Name))
		require.NoError(t, err)
		assert.True(t, exists, "expected %s to be seeded", doc.Name)
	}

	optionsFile := filepath.Join(p.ConfigDir, config.OptionsFilename)
	exists, err := afero.Exists(afero.NewOsFs(), optionsFile)
	require.NoError(t, err)
	assert.True(t, exists, "options file should be seeded")
}

func TestRunTwiceIsIdempotent(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	seq, root, argsFile := newTestSequencer(t, false)
	ctx, _ := testutil.LoggingContext(t)

	require.NoError(t, seq.Run(ctx))

	p := seq.Paths()
	snapshot := func() map[string][]byte {
		state := make(map[string][]byte)
		for _, doc := range documents.Registry() {
			data, err := os.ReadFile(filepath.Join(p.ConfigDir, doc.Name))
			require.NoError(t, err)
			state[doc.Name] = data
		}
		marker, err := os.ReadFile(filepath.Join(root, volume.MarkerFilename))
		require.NoError(t, err)
		state[volume.MarkerFilename] = marker
		return state
	}

	before := snapshot()
	require.NoError(t, seq.Run(ctx))
	after := snapshot()

	assert.Equal(t, before, after, "second run must not change any file")

	inv := invocations(t, argsFile)
	require.Len(t, inv, 2)
	assert.Empty(t, inv[0], "first run creates")
	assert.Equal(t, "--migrate", inv[1], "second run migrates the existing database")
}

func TestRunAbortsOnCreateFailure(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	seq, _, argsFile := newTestSequencer(t, true)
	ctx, _ := testutil.LoggingContext(t)

	err := seq.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database creation failed")

	inv := invocations(t, argsFile)
	require.Len(t, inv, 1, "create attempted exactly once")
}

func TestRunMigrateFailureDoesNotAbort(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	seq, root, _ := newTestSequencer(t, false)
	ctx, logs := testutil.LoggingContext(t)

	// Pre-existing database plus a tool that fails every mode.
	dbFile := filepath.Join(root, "db", "photoframe.db")
	require.NoError(t, os.MkdirAll(filepath.Dir(dbFile), 0o755))
	require.NoError(t, os.WriteFile(dbFile, []byte("sqlite"), 0o644))

	failTool := filepath.Join(t.TempDir(), "db_manager")
	require.NoError(t, os.WriteFile(failTool, []byte("#!/bin/sh\nexit 1\n"), 0o755))
	seq.opts.DBToolCommand = []string{failTool}

	require.NoError(t, seq.Run(ctx), "migration failure is recoverable")
	assert.Contains(t, logs.String(), "database migration failed")
}

func TestRunMigratesLegacyUploads(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)
	if runtime.GOOS == "windows" {
		t.Skip("requires symlinks")
	}

	seq, _, argsFile := newTestSequencer(t, false)
	ctx, _ := testutil.LoggingContext(t)

	legacyDir := filepath.Join(t.TempDir(), "uploads")
	require.NoError(t, os.MkdirAll(legacyDir, 0o755))
	for _, name := range []string{"a.jpg", "b.jpg", "c.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(legacyDir, name), []byte(name), 0o644))
	}

	p := seq.Paths()
	seq.Mappings = []legacy.Mapping{{Legacy: legacyDir, Canonical: p.UploadDir}}

	require.NoError(t, seq.Run(ctx))

	entries, err := os.ReadDir(p.UploadDir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	assert.ElementsMatch(t, []string{"a.jpg", "b.jpg", "c.png"}, names)

	info, err := os.Lstat(legacyDir)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink, "legacy uploads should now be a symlink")

	inv := invocations(t, argsFile)
	require.Len(t, inv, 1)
	assert.Empty(t, inv[0], "missing database still goes through create mode")
}

func TestRunPreservesExistingConfigDocuments(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	seq, _, _ := newTestSequencer(t, false)
	ctx, _ := testutil.LoggingContext(t)

	p := seq.Paths()
	custom := []byte(`{"server_name": "Living Room Frame"}`)
	require.NoError(t, os.MkdirAll(p.ConfigDir, 0o755))
	path := filepath.Join(p.ConfigDir, "server_settings.json")
	require.NoError(t, os.WriteFile(path, custom, 0o644))

	require.NoError(t, seq.Run(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, custom, data)
}

func TestHandoffFailsWithMissingServer(t *testing.T) {
	seq, _, _ := newTestSequencer(t, false)
	ctx, _ := testutil.LoggingContext(t)

	seq.opts.ServerCommand = []string{"no-such-photo-server"}
	err := seq.Handoff(ctx)
	require.Error(t, err)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package autosave

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-forge/internal/project"
	"github.com/pdiddy/paper-forge/pkg/types"
)

func newManager(t *testing.T, policy types.AutosavePolicy) (*Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "autosave.json")
	cfg := types.AutosaveConfig{
		Enabled:  true,
		Policy:   policy,
		Interval: time.Minute,
		Path:     path,
	}
	return New(cfg, zerolog.Nop()), path
}

func TestSnapshotRoundTrip(t *testing.T) {
	mgr, path := newManager(t, types.AutosaveInterval)

	p := project.New("Autosaved Paper")
	project.AddSection(p, types.Section{Heading: "Introduction", Body: "Text."})
	mgr.Track(p)

	require.NoError(t, mgr.Snapshot())

	snap, err := Restore(path)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, types.ProjectVersion, snap.Version)
	assert.Equal(t, "Autosaved Paper", snap.Project.Title)
	require.Len(t, snap.Project.Sections, 1)
	assert.Equal(t, "Introduction", snap.Project.Sections[0].Heading)
}

func TestSnapshotSkipsUnchanged(t *testing.T) {
	mgr, path := newManager(t, types.AutosaveInterval)
	p := project.New("Paper")
	mgr.Track(p)

	require.NoError(t, mgr.Snapshot())
	first, err := os.Stat(path)
	require.NoError(t, err)

	// Second snapshot of identical content must not rewrite the file.
	require.NoError(t, mgr.Snapshot())
	second, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, first.ModTime(), second.ModTime())

	// A mutation makes the next snapshot write again.
	project.AddSection(p, types.Section{Heading: "New"})
	require.NoError(t, mgr.Snapshot())
	snap, err := Restore(path)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Len(t, snap.Project.Sections, 1)
}

func TestSnapshotWithoutTrackedProject(t *testing.T) {
	mgr, path := newManager(t, types.AutosaveInterval)
	require.NoError(t, mgr.Snapshot())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no file should be written without a tracked project")
}

func TestRecordMutationPolicies(t *testing.T) {
	t.Run("mutation policy writes", func(t *testing.T) {
		mgr, path := newManager(t, types.AutosaveMutation)
		mgr.Track(project.New("Paper"))
		mgr.RecordMutation()
		_, err := os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("interval policy ignores mutations", func(t *testing.T) {
		mgr, path := newManager(t, types.AutosaveInterval)
		mgr.Track(project.New("Paper"))
		mgr.RecordMutation()
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})
}

func TestRestoreMissingFile(t *testing.T) {
	snap, err := Restore(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestRestoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autosave.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))
	_, err := Restore(path)
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	mgr, path := newManager(t, types.AutosaveInterval)
	mgr.Track(project.New("Paper"))
	require.NoError(t, mgr.Snapshot())

	require.NoError(t, Discard(path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Discarding again is not an error.
	assert.NoError(t, Discard(path))
}

func TestStartWritesIntervalSnapshots(t *testing.T) {
	mgr, path := newManager(t, types.AutosaveInterval)
	mgr.cfg.Interval = time.Second

	p := project.New("Scheduled Paper")
	mgr.Track(p)
	require.NoError(t, mgr.Start())
	t.Cleanup(mgr.Stop)

	require.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, 3*time.Second, 50*time.Millisecond, "scheduled snapshot never appeared")

	snap, err := Restore(path)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "Scheduled Paper", snap.Project.Title)

	// Re-tracking swaps what later scheduled snapshots capture.
	mgr.Track(project.New("Revised Paper"))
	require.Eventually(t, func() bool {
		snap, err := Restore(path)
		return err == nil && snap != nil && snap.Project.Title == "Revised Paper"
	}, 3*time.Second, 50*time.Millisecond, "snapshot never picked up the re-tracked project")
}

func TestStopTakesFinalSnapshot(t *testing.T) {
	mgr, path := newManager(t, types.AutosaveInterval)
	p := project.New("Paper")
	mgr.Track(p)
	require.NoError(t, mgr.Start())

	project.AddSection(p, types.Section{Heading: "Late addition"})
	mgr.Stop()

	snap, err := Restore(path)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Len(t, snap.Project.Sections, 1)
}

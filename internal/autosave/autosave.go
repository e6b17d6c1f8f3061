// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package autosave periodically persists the working project to a
// single-slot snapshot file so state survives a crash or restart.
// Snapshot writes are best-effort: a failure is logged and the in-memory
// state continues untouched.
package autosave

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-forge/internal/project"
	"github.com/pdiddy/paper-forge/pkg/types"
)

// Manager snapshots a tracked project on a schedule, after mutations, or
// both, depending on the configured policy.
type Manager struct {
	cfg types.AutosaveConfig
	log zerolog.Logger

	mu       sync.Mutex
	current  *types.Project
	lastHash [sha256.Size]byte

	cron *cron.Cron
}

// New creates a manager for the given configuration. Call Track before
// Start or RecordMutation.
func New(cfg types.AutosaveConfig, log zerolog.Logger) *Manager {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.Policy == "" {
		cfg.Policy = types.AutosaveInterval
	}
	return &Manager{cfg: cfg, log: log}
}

// Track sets the project the manager snapshots.
func (m *Manager) Track(p *types.Project) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = p
}

// Start begins interval snapshots. It is a no-op when autosave is
// disabled or the policy is mutation-only.
func (m *Manager) Start() error {
	if !m.cfg.Enabled || m.cfg.Policy != types.AutosaveInterval {
		return nil
	}
	m.cron = cron.New()
	_, err := m.cron.AddFunc(fmt.Sprintf("@every %s", m.cfg.Interval), func() {
		if err := m.Snapshot(); err != nil {
			m.log.Warn().Err(err).Str("path", m.cfg.Path).Msg("autosave failed, keeping in-memory state")
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling autosave: %w", err)
	}
	m.cron.Start()
	return nil
}

// Stop halts interval snapshots and takes a final one.
func (m *Manager) Stop() {
	if m.cron != nil {
		m.cron.Stop()
		m.cron = nil
	}
	if err := m.Snapshot(); err != nil {
		m.log.Warn().Err(err).Msg("final autosave failed")
	}
}

// RecordMutation snapshots immediately under the mutation policy.
func (m *Manager) RecordMutation() {
	if !m.cfg.Enabled || m.cfg.Policy != types.AutosaveMutation {
		return
	}
	if err := m.Snapshot(); err != nil {
		m.log.Warn().Err(err).Str("path", m.cfg.Path).Msg("autosave failed, keeping in-memory state")
	}
}

// Snapshot serializes the tracked project to the snapshot file,
// overwriting the previous snapshot. The project is deep-copied first so
// the write observes a consistent state, and unchanged content is
// skipped via a hash comparison.
func (m *Manager) Snapshot() error {
	m.mu.Lock()
	if m.current == nil {
		m.mu.Unlock()
		return nil
	}
	clone := project.Clone(m.current)
	m.mu.Unlock()

	body, err := json.Marshal(clone)
	if err != nil {
		return fmt.Errorf("marshaling project: %w", err)
	}
	hash := sha256.Sum256(body)

	m.mu.Lock()
	unchanged := hash == m.lastHash
	m.mu.Unlock()
	if unchanged {
		m.log.Debug().Msg("autosave skipped, no changes")
		return nil
	}

	snap := types.AutosaveSnapshot{
		SavedAt: time.Now().UTC(),
		Version: types.ProjectVersion,
		Project: *clone,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	if err := writeAtomic(m.cfg.Path, data); err != nil {
		return err
	}

	m.mu.Lock()
	m.lastHash = hash
	m.mu.Unlock()
	m.log.Debug().Str("path", m.cfg.Path).Msg("autosave written")
	return nil
}

// Restore loads the snapshot at path. A missing file returns (nil, nil):
// there is simply nothing to restore.
func Restore(path string) (*types.AutosaveSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap types.AutosaveSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", filepath.Base(path), err)
	}
	return &snap, nil
}

// Discard removes the snapshot file if present.
func Discard(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing snapshot: %w", err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

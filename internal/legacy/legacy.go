// Package legacy reconciles data left under deprecated fixed paths by
// earlier releases into the canonical volume layout.
package legacy

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"photoframe-entrypoint/internal/logging"
	"photoframe-entrypoint/internal/paths"
)

// Fixed locations used before the layout became environment-configurable.
const (
	legacyUploadDir = "/app/uploads"
	legacyLogDir    = "/app/logs"
	legacyBackupDir = "/app/db_backups"
)

// ErrSymlinksUnsupported is reported when the filesystem cannot create
// symbolic links and strict mode is enabled.
var ErrSymlinksUnsupported = errors.New("filesystem does not support symbolic links")

// Mapping pairs a deprecated fixed path with the canonical directory its
// contents belong in.
type Mapping struct {
	Legacy    string
	Canonical string
}

// DefaultMappings returns the legacy-to-canonical table for the resolved
// path set.
func DefaultMappings(p paths.Canonical) []Mapping {
	return []Mapping{
		{Legacy: legacyUploadDir, Canonical: p.UploadDir},
		{Legacy: legacyLogDir, Canonical: p.LogDir},
		{Legacy: legacyBackupDir, Canonical: p.DBBackupDir},
	}
}

// Engine merges legacy directories into the canonical layout and replaces
// them with symbolic links. Safe to run on every startup: a legacy path
// that is already a link is skipped outright.
type Engine struct {
	fs     afero.Fs
	strict bool
}

// NewEngine creates a migration engine. When strict is true, a failure to
// create the compatibility symlink aborts the run instead of being logged.
func NewEngine(fs afero.Fs, strict bool) *Engine {
	return &Engine{fs: fs, strict: strict}
}

// Run migrates every mapping in order. Only strict-mode symlink failures
// produce an error; everything else is logged and skipped.
func (e *Engine) Run(ctx context.Context, mappings []Mapping) error {
	for _, m := range mappings {
		if err := e.migrate(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) migrate(ctx context.Context, m Mapping) error {
	log := logging.Get(ctx)

	info, isLink, err := e.lstat(m.Legacy)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("legacy", m.Legacy).Msg("cannot stat legacy path")
		}
		return nil
	}
	if isLink {
		return nil
	}
	if !info.IsDir() {
		log.Warn().Str("legacy", m.Legacy).
			Msg("legacy path exists but is not a directory, leaving it alone")
		return nil
	}

	log.Info().Str("legacy", m.Legacy).Str("canonical", m.Canonical).
		Msg("migrating legacy directory")

	e.merge(ctx, m.Legacy, m.Canonical)

	if err := e.fs.RemoveAll(m.Legacy); err != nil {
		log.Warn().Err(err).Str("legacy", m.Legacy).
			Msg("failed to remove migrated legacy directory")
		return nil
	}

	return e.link(ctx, m)
}

// merge copies the legacy tree into the canonical directory without ever
// overwriting an existing destination file (first-writer-wins, so a stale
// legacy copy cannot clobber newer canonical data). Individual copy failures
// are logged and do not abort the remaining entries.
func (e *Engine) merge(ctx context.Context, src, dst string) {
	log := logging.Get(ctx)

	walkErr := afero.Walk(e.fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("skipping unreadable legacy entry")
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil || rel == "." {
			return nil
		}
		target := filepath.Join(dst, rel)

		if info.IsDir() {
			if err := e.fs.MkdirAll(target, info.Mode().Perm()); err != nil {
				log.Warn().Err(err).Str("path", target).Msg("failed to create directory")
			}
			return nil
		}

		if exists, _ := afero.Exists(e.fs, target); exists {
			log.Debug().Str("path", target).Msg("destination exists, keeping canonical copy")
			return nil
		}
		if err := e.copyFile(path, target, info.Mode().Perm()); err != nil {
			log.Warn().Err(err).Str("src", path).Str("dst", target).
				Msg("failed to copy legacy file")
		}
		return nil
	})
	if walkErr != nil {
		log.Warn().Err(walkErr).Str("legacy", src).Msg("legacy directory walk failed")
	}
}

func (e *Engine) copyFile(src, dst string, perm os.FileMode) error {
	data, err := afero.ReadFile(e.fs, src)
	if err != nil {
		return err
	}
	if err := e.fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(e.fs, dst, data, perm)
}

// link replaces the removed legacy path with a symlink to the canonical
// directory, for anything still referencing the old location.
func (e *Engine) link(ctx context.Context, m Mapping) error {
	log := logging.Get(ctx)

	linker, ok := e.fs.(afero.Linker)
	if !ok {
		if e.strict {
			return ErrSymlinksUnsupported
		}
		log.Warn().Str("legacy", m.Legacy).
			Msg("filesystem does not support symlinks, legacy path not recreated")
		return nil
	}

	if err := linker.SymlinkIfPossible(m.Canonical, m.Legacy); err != nil {
		if e.strict {
			return err
		}
		log.Warn().Err(err).Str("legacy", m.Legacy).Str("canonical", m.Canonical).
			Msg("failed to create compatibility symlink")
		return nil
	}

	log.Info().Str("legacy", m.Legacy).Str("canonical", m.Canonical).
		Msg("legacy path now links to canonical directory")
	return nil
}

// lstat reports whether the path is a symbolic link, falling back to a plain
// Stat on filesystems without Lstat support (which cannot hold links anyway).
func (e *Engine) lstat(name string) (os.FileInfo, bool, error) {
	if lstater, ok := e.fs.(afero.Lstater); ok {
		info, lstatCalled, err := lstater.LstatIfPossible(name)
		if err != nil {
			return nil, false, err
		}
		if lstatCalled && info.Mode()&os.ModeSymlink != 0 {
			return info, true, nil
		}
		return info, false, nil
	}

	info, err := e.fs.Stat(name)
	return info, false, err
}

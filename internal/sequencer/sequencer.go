// Package sequencer orchestrates the bootstrap: path resolution, volume
// health reporting, directory creation, legacy migration, database
// lifecycle, config seeding, and permission normalization, in that order.
// The sequence is idempotent and must never destroy user data.
package sequencer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"photoframe-entrypoint/internal/config"
	"photoframe-entrypoint/internal/dbtool"
	"photoframe-entrypoint/internal/documents"
	"photoframe-entrypoint/internal/legacy"
	"photoframe-entrypoint/internal/logging"
	"photoframe-entrypoint/internal/paths"
	"photoframe-entrypoint/internal/server"
	"photoframe-entrypoint/internal/volume"
)

// Sequencer runs the bootstrap steps against a filesystem. Environ is the
// base environment for subprocesses and defaults to os.Environ; it is a
// field so tests can pin it.
type Sequencer struct {
	fs    afero.Fs
	opts  *config.Options
	paths paths.Canonical

	// Mappings is the legacy-to-canonical migration table, defaulting to
	// the fixed paths of earlier releases.
	Mappings []legacy.Mapping
	Environ  func() []string
}

// New resolves the canonical paths and returns a sequencer ready to run.
func New(fs afero.Fs, opts *config.Options) *Sequencer {
	resolved := paths.Resolve(fs, opts.Overrides())
	return &Sequencer{
		fs:       fs,
		opts:     opts,
		paths:    resolved,
		Mappings: legacy.DefaultMappings(resolved),
		Environ:  os.Environ,
	}
}

// Paths returns the resolved canonical path set.
func (s *Sequencer) Paths() paths.Canonical {
	return s.paths
}

// Inspect reports volume health without touching anything but the
// persistence marker.
func (s *Sequencer) Inspect(ctx context.Context) volume.Report {
	return volume.Inspect(ctx, s.fs, s.paths)
}

// Run executes the bootstrap sequence up to, but not including, the server
// handoff. The only fatal outcome besides a strict-mode symlink failure is
// a database creation failure; every other problem is logged and the
// sequence continues.
func (s *Sequencer) Run(ctx context.Context) error {
	log := logging.Get(ctx)
	env := s.paths.Environ(s.Environ())

	volume.Inspect(ctx, s.fs, s.paths)

	if err := s.createDirectories(ctx); err != nil {
		return err
	}

	engine := legacy.NewEngine(s.fs, s.opts.StrictSymlinks)
	if err := engine.Run(ctx, s.Mappings); err != nil {
		return err
	}

	delegate := dbtool.New(s.opts.DBToolCommand, env)
	if err := delegate.Ensure(ctx, s.fs, s.paths.DBFile); err != nil {
		return err
	}

	documents.Seed(ctx, s.fs, s.paths.ConfigDir)
	s.seedOptionsFile(ctx)

	s.normalizePermissions(ctx)

	log.Info().Msg("bootstrap sequence complete")
	return nil
}

// Handoff execs the main server process with the resolved environment.
// It only returns on failure.
func (s *Sequencer) Handoff(ctx context.Context) error {
	launcher := server.NewLauncher(s.opts.ServerCommand, s.paths.Environ(s.Environ()))
	return launcher.Exec(ctx)
}

// createDirectories guarantees the canonical layout exists. Failure here is
// fatal: nothing downstream can work without its directories.
func (s *Sequencer) createDirectories(ctx context.Context) error {
	log := logging.Get(ctx)

	mode, err := s.opts.ParsedDirMode()
	if err != nil {
		return err
	}

	for _, dir := range s.paths.Directories() {
		if err := s.fs.MkdirAll(dir, os.FileMode(mode)); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	log.Debug().Strs("dirs", s.paths.Directories()).Msg("canonical directories ready")
	return nil
}

// seedOptionsFile writes the default entrypoint options next to the server's
// config documents, under the same never-overwrite rule.
func (s *Sequencer) seedOptionsFile(ctx context.Context) {
	log := logging.Get(ctx)

	data, err := config.DefaultOptionsYAML()
	if err != nil {
		log.Warn().Err(err).Msg("failed to encode default options")
		return
	}

	path := filepath.Join(s.paths.ConfigDir, config.OptionsFilename)
	written, err := documents.WriteIfMissing(s.fs, path, data)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to seed options file")
		return
	}
	if written {
		log.Info().Str("path", path).Msg("seeded default options file")
	}
}

// normalizePermissions re-applies the configured mode to every canonical
// directory. Best-effort: some deployments mount read-only or on
// filesystems that reject the mode, and that must not block startup.
func (s *Sequencer) normalizePermissions(ctx context.Context) {
	log := logging.Get(ctx)

	mode, err := s.opts.ParsedDirMode()
	if err != nil {
		log.Warn().Err(err).Msg("skipping permission normalization")
		return
	}

	for _, dir := range s.paths.Directories() {
		if err := s.fs.Chmod(dir, os.FileMode(mode)); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("failed to normalize permissions")
		}
	}
}

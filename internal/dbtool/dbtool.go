// Package dbtool gates the external database manager: the presence of the
// database file alone decides between creating a new database and migrating
// an existing one.
package dbtool

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/spf13/afero"

	"photoframe-entrypoint/internal/logging"
)

// ErrNoCommand is returned when no database tool command is configured.
var ErrNoCommand = errors.New("no database tool command configured")

// Delegate invokes the external database tool. It blocks on the tool's exit
// and consults only the exit code, never the output.
type Delegate struct {
	command []string
	env     []string
}

// New creates a delegate that runs command with the given environment. The
// environment should carry the resolved canonical paths so the tool observes
// the same layout as the bootstrap.
func New(command, env []string) *Delegate {
	return &Delegate{command: command, env: env}
}

// Ensure runs the tool in create mode when dbFile is absent and migrate mode
// when it exists. A create failure is fatal and returned; a migrate failure
// is logged and swallowed, since the schema may already be current or the
// tool absent, and an operator can recover a populated database. Starting
// without any database at all would only mask data loss.
func (d *Delegate) Ensure(ctx context.Context, fs afero.Fs, dbFile string) error {
	log := logging.Get(ctx)

	exists, err := afero.Exists(fs, dbFile)
	if err != nil {
		return fmt.Errorf("failed to check database file %s: %w", dbFile, err)
	}

	if exists {
		log.Info().Str("db", dbFile).Msg("database present, checking schema migration")
		if err := d.run(ctx, "--migrate"); err != nil {
			log.Warn().Err(err).Msg("database migration failed, continuing with existing schema")
		}
		return nil
	}

	log.Info().Str("db", dbFile).Msg("database missing, creating")
	if err := d.run(ctx); err != nil {
		return fmt.Errorf("database creation failed: %w", err)
	}
	return nil
}

func (d *Delegate) run(ctx context.Context, args ...string) error {
	if len(d.command) == 0 {
		return ErrNoCommand
	}
	log := logging.Get(ctx)

	argv := append(append([]string{}, d.command[1:]...), args...)
	// #nosec G204 -- the command comes from the operator's own options file
	cmd := exec.CommandContext(ctx, d.command[0], argv...)
	cmd.Env = d.env

	log.Debug().Str("tool", d.command[0]).Strs("args", argv).Msg("invoking database tool")

	output, err := cmd.CombinedOutput()
	if err != nil {
		log.Error().
			Str("tool", d.command[0]).
			Strs("args", argv).
			Str("output", string(output)).
			Err(err).
			Msg("database tool failed")
		return fmt.Errorf("database tool %s: %w", d.command[0], err)
	}

	log.Debug().Str("tool", d.command[0]).Int("output_length", len(output)).
		Msg("database tool succeeded")
	return nil
}

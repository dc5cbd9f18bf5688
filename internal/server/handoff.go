// Package server hands process control to the main photo server once the
// bootstrap sequence has finished.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"photoframe-entrypoint/internal/logging"
)

// ErrNoCommand is returned when no server command is configured.
var ErrNoCommand = errors.New("no server command configured")

// Launcher resolves and execs the server process.
type Launcher struct {
	command []string
	env     []string
}

// NewLauncher creates a launcher for command with the given environment.
func NewLauncher(command, env []string) *Launcher {
	return &Launcher{command: command, env: env}
}

// Exec replaces the current process with the server. On success it never
// returns; there is no supervision after handoff, so a server crash
// terminates the container.
func (l *Launcher) Exec(ctx context.Context) error {
	if len(l.command) == 0 {
		return ErrNoCommand
	}

	path, err := exec.LookPath(l.command[0])
	if err != nil {
		return fmt.Errorf("failed to locate server binary %s: %w", l.command[0], err)
	}
	if err := validateBinary(path); err != nil {
		return fmt.Errorf("server binary %s: %w", path, err)
	}

	logging.Get(ctx).Info().Str("server", path).Strs("argv", l.command).
		Msg("handing off to server process")

	if err := syscall.Exec(path, l.command, l.env); err != nil {
		return fmt.Errorf("failed to exec server: %w", err)
	}
	return nil
}

// validateBinary checks that the path is a regular, executable file.
func validateBinary(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.New("file does not exist")
		}
		return fmt.Errorf("cannot stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return errors.New("not a regular file")
	}
	if info.Mode().Perm()&0o111 == 0 {
		return errors.New("file is not executable")
	}
	return nil
}

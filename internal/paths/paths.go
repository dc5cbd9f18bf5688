// Package paths resolves the canonical on-disk layout for the photo server
// from environment overrides with container defaults.
package paths

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"
)

// Environment variable names recognized as path overrides. These are shared
// with the server and the database tool, which read the same keys.
const (
	EnvDataDir    = "DATA_DIR"
	EnvUploadPath = "UPLOAD_PATH"
	EnvLogPath    = "LOG_PATH"
	EnvConfigPath = "CONFIG_PATH"
	EnvDBPath     = "DB_PATH"
)

// AppName is used for the per-user fallback tree when running outside a
// container.
const AppName = "photoframe"

const (
	defaultDataDir = "/data"

	thumbnailSubdir   = "thumbnails"
	credentialsSubdir = "credentials"
	dbBackupSubdir    = "db_backups"
)

// Overrides carries the raw, possibly-empty path overrides taken from the
// environment or an options file. Empty fields fall back to defaults.
type Overrides struct {
	DataDir   string
	UploadDir string
	LogDir    string
	ConfigDir string
	DBFile    string
}

// Canonical is the resolved path set. ThumbnailDir, CredentialsDir, DBDir and
// DBBackupDir are always derived and never configured independently.
type Canonical struct {
	VolumeRoot     string
	UploadDir      string
	ThumbnailDir   string
	LogDir         string
	ConfigDir      string
	CredentialsDir string
	DBFile         string
	DBDir          string
	DBBackupDir    string
}

// Resolve computes the canonical path set. When no override is given and the
// default volume root does not exist, the layout falls back to a per-user
// tree under the XDG data home so the tool is usable outside a container.
func Resolve(fs afero.Fs, o Overrides) Canonical {
	root := o.DataDir
	if root == "" {
		root = defaultDataDir
		if o.UploadDir == "" && o.LogDir == "" && o.ConfigDir == "" && o.DBFile == "" {
			if ok, _ := afero.DirExists(fs, root); !ok {
				root = filepath.Join(xdg.DataHome, AppName)
			}
		}
	}

	c := Canonical{
		VolumeRoot: root,
		UploadDir:  o.UploadDir,
		LogDir:     o.LogDir,
		ConfigDir:  o.ConfigDir,
		DBFile:     o.DBFile,
	}
	if c.UploadDir == "" {
		c.UploadDir = filepath.Join(root, "uploads")
	}
	if c.LogDir == "" {
		c.LogDir = filepath.Join(root, "logs")
	}
	if c.ConfigDir == "" {
		c.ConfigDir = filepath.Join(root, "config")
	}
	if c.DBFile == "" {
		c.DBFile = filepath.Join(root, "db", "photoframe.db")
	}

	c.ThumbnailDir = filepath.Join(c.UploadDir, thumbnailSubdir)
	c.CredentialsDir = filepath.Join(c.ConfigDir, credentialsSubdir)
	c.DBDir = filepath.Dir(c.DBFile)
	c.DBBackupDir = filepath.Join(c.DBDir, dbBackupSubdir)

	return c
}

// Directories returns every directory the bootstrap guarantees to exist, in
// creation order (parents before children).
func (c Canonical) Directories() []string {
	return []string{
		c.UploadDir,
		c.ThumbnailDir,
		c.LogDir,
		c.ConfigDir,
		c.CredentialsDir,
		c.DBDir,
		c.DBBackupDir,
	}
}

// Environ merges the resolved paths into base as the same environment keys,
// so subprocesses observe an identical view regardless of which overrides
// were originally set.
func (c Canonical) Environ(base []string) []string {
	overrides := map[string]string{
		EnvDataDir:    c.VolumeRoot,
		EnvUploadPath: c.UploadDir,
		EnvLogPath:    c.LogDir,
		EnvConfigPath: c.ConfigDir,
		EnvDBPath:     c.DBFile,
	}

	env := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		key, _, ok := strings.Cut(kv, "=")
		if ok {
			if _, replaced := overrides[key]; replaced {
				continue
			}
		}
		env = append(env, kv)
	}
	for key, value := range overrides {
		env = append(env, fmt.Sprintf("%s=%s", key, value))
	}
	return env
}

// Package volume inspects the persistent data volume and maintains the
// persistence marker that distinguishes a fresh volume from one that has
// survived container restarts.
package volume

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"photoframe-entrypoint/internal/logging"
	"photoframe-entrypoint/internal/paths"
)

// MarkerFilename is the persistence marker at the volume root. Written once
// on first observed use, read-only thereafter, never deleted.
const MarkerFilename = ".volume-created"

var photoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// Marker records when a volume was first seen and gives it a stable identity
// for log correlation across restarts.
type Marker struct {
	CreatedAt time.Time `json:"created_at"`
	VolumeID  string    `json:"volume_id"`
}

// Report describes the observed state of the volume. It is diagnostic only
// and never influences control flow.
type Report struct {
	// Persistent is false when the volume root does not exist at all
	// (a non-persistent run, e.g. local development without a mount).
	Persistent bool

	// Fresh is true when this run wrote the marker for the first time.
	Fresh  bool
	Marker Marker

	DBExists bool
	// DBTables is the table count from a read-only probe of the database,
	// or -1 when the database is absent or unreadable.
	DBTables int

	PhotoCount int
}

// Inspect reports on the volume and writes the persistence marker if the
// volume root exists and no marker is present. All failures degrade to
// zero values; Inspect never returns an error.
func Inspect(ctx context.Context, fs afero.Fs, p paths.Canonical) Report {
	log := logging.Get(ctx)
	report := Report{DBTables: -1}

	rootExists, err := afero.DirExists(fs, p.VolumeRoot)
	if err != nil || !rootExists {
		log.Info().Str("root", p.VolumeRoot).
			Msg("volume root not present, assuming non-persistent run")
		return report
	}
	report.Persistent = true

	report.Marker, report.Fresh = ensureMarker(ctx, fs, p.VolumeRoot)

	if exists, _ := afero.Exists(fs, p.DBFile); exists {
		report.DBExists = true
		report.DBTables = countTables(ctx, p.DBFile)
	}
	report.PhotoCount = countPhotos(fs, p.UploadDir)

	if report.Fresh {
		log.Info().Str("volume_id", report.Marker.VolumeID).
			Msg("fresh volume, persistence marker written")
	} else if !report.Marker.CreatedAt.IsZero() {
		log.Info().
			Time("created_at", report.Marker.CreatedAt).
			Str("volume_id", report.Marker.VolumeID).
			Msg("volume persisting since first use")
	}
	log.Info().
		Bool("db_exists", report.DBExists).
		Int("db_tables", report.DBTables).
		Int("photos", report.PhotoCount).
		Msg("volume health")

	return report
}

// ensureMarker reads the existing marker, or writes a new one when absent.
// The marker is never mutated once created.
func ensureMarker(ctx context.Context, fs afero.Fs, root string) (Marker, bool) {
	log := logging.Get(ctx)
	markerPath := filepath.Join(root, MarkerFilename)

	data, err := afero.ReadFile(fs, markerPath)
	if err == nil {
		var m Marker
		if jsonErr := json.Unmarshal(data, &m); jsonErr != nil {
			log.Warn().Err(jsonErr).Str("path", markerPath).
				Msg("persistence marker unreadable, leaving it untouched")
			return Marker{}, false
		}
		return m, false
	}

	m := Marker{
		CreatedAt: time.Now().UTC(),
		VolumeID:  uuid.NewString(),
	}
	data, err = json.Marshal(m)
	if err != nil {
		return Marker{}, false
	}
	if err := afero.WriteFile(fs, markerPath, data, 0o644); err != nil {
		log.Warn().Err(err).Str("path", markerPath).
			Msg("failed to write persistence marker")
		return Marker{}, false
	}
	return m, true
}

// countPhotos counts photo files directly inside the upload directory.
func countPhotos(fs afero.Fs, uploadDir string) int {
	entries, err := afero.ReadDir(fs, uploadDir)
	if err != nil {
		return 0
	}
	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if photoExtensions[ext] {
			count++
		}
	}
	return count
}

// Package documents seeds the server's configuration documents with safe
// defaults. An existing document is never touched, merged, or validated;
// it belongs to the running server once it exists.
package documents

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"photoframe-entrypoint/internal/logging"
)

// Document is a named configuration unit with its default content.
type Document struct {
	Name    string
	Default func() any
}

// Registry returns the fixed set of recognized configuration documents.
func Registry() []Document {
	return []Document{
		{Name: "server_settings.json", Default: defaultServerSettings},
		{Name: "immich_config.json", Default: defaultImmichConfig},
		{Name: "mqtt_config.json", Default: defaultMQTTConfig},
		{Name: "network_locations.json", Default: defaultNetworkLocations},
		{Name: "photogen_settings.json", Default: defaultPhotoGenSettings},
		{Name: "pixabay_config.json", Default: defaultPixabayConfig},
		{Name: "qrcode_settings.json", Default: defaultQRCodeSettings},
		{Name: "spotify_config.json", Default: defaultSpotifyConfig},
		{Name: "unsplash_config.json", Default: defaultUnsplashConfig},
		{Name: "weather_config.json", Default: defaultWeatherConfig},
	}
}

// Seed writes every registered document missing from configDir. The
// operation is idempotent and commutes: running it N times leaves the same
// end state as running it once.
func Seed(ctx context.Context, fs afero.Fs, configDir string) {
	log := logging.Get(ctx)

	for _, doc := range Registry() {
		data, err := json.MarshalIndent(doc.Default(), "", "  ")
		if err != nil {
			log.Error().Err(err).Str("document", doc.Name).
				Msg("failed to encode default document")
			continue
		}

		written, err := WriteIfMissing(fs, filepath.Join(configDir, doc.Name), append(data, '\n'))
		if err != nil {
			log.Warn().Err(err).Str("document", doc.Name).
				Msg("failed to seed config document")
			continue
		}
		if written {
			log.Info().Str("document", doc.Name).Msg("seeded default config document")
		}
	}
}

// WriteIfMissing writes data to path unless a file already exists there, in
// which case the existing content is left byte-for-byte untouched. Reports
// whether a write happened.
func WriteIfMissing(fs afero.Fs, path string, data []byte) (bool, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", path, err)
	}
	if exists {
		return false, nil
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

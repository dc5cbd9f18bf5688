package documents

// Default schemas for the configuration documents consumed by the server.
// The bootstrap only guarantees these exist; the server owns them afterward.

// ServerSettings is the main server configuration document.
type ServerSettings struct {
	ServerName        string `json:"server_name"`
	Timezone          string `json:"timezone"`
	CleanupInterval   int    `json:"cleanup_interval"`
	LogLevel          string `json:"log_level"`
	MaxUploadMB       int    `json:"max_upload_mb"`
	DiscoveryPort     int    `json:"discovery_port"`
	AIAnalysisEnabled bool   `json:"ai_analysis_enabled"`
	DarkMode          bool   `json:"dark_mode"`
}

// ImmichConfig holds the Immich photo-library integration settings.
type ImmichConfig struct {
	Enabled      bool   `json:"enabled"`
	ServerURL    string `json:"server_url"`
	APIKey       string `json:"api_key"`
	SyncInterval int    `json:"sync_interval"`
}

// MQTTConfig holds the MQTT broker settings used for frame discovery.
type MQTTConfig struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Topic    string `json:"topic"`
}

// NetworkLocations lists named remote photo sources.
type NetworkLocations struct {
	Locations []NetworkLocation `json:"locations"`
}

// NetworkLocation is a single mounted or remote photo source.
type NetworkLocation struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// PhotoGenSettings configures AI photo generation.
type PhotoGenSettings struct {
	Enabled      bool   `json:"enabled"`
	Provider     string `json:"provider"`
	APIKey       string `json:"api_key"`
	DefaultStyle string `json:"default_style"`
	DailyLimit   int    `json:"daily_limit"`
}

// PixabayConfig holds Pixabay stock-photo settings.
type PixabayConfig struct {
	Enabled bool   `json:"enabled"`
	APIKey  string `json:"api_key"`
}

// QRCodeSettings configures the on-frame pairing QR code overlay.
type QRCodeSettings struct {
	Enabled  bool   `json:"enabled"`
	Position string `json:"position"`
	Size     int    `json:"size"`
}

// SpotifyConfig holds the Spotify now-playing integration settings.
type SpotifyConfig struct {
	Enabled      bool   `json:"enabled"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RedirectURI  string `json:"redirect_uri"`
}

// UnsplashConfig holds Unsplash stock-photo settings.
type UnsplashConfig struct {
	Enabled   bool   `json:"enabled"`
	AccessKey string `json:"access_key"`
}

// WeatherConfig holds the weather overlay settings.
type WeatherConfig struct {
	Enabled  bool   `json:"enabled"`
	Provider string `json:"provider"`
	APIKey   string `json:"api_key"`
	Location string `json:"location"`
	Units    string `json:"units"`
}

func defaultServerSettings() any {
	return ServerSettings{
		ServerName:        "PhotoFrame Server",
		Timezone:          "UTC",
		CleanupInterval:   24,
		LogLevel:          "INFO",
		MaxUploadMB:       50,
		DiscoveryPort:     5353,
		AIAnalysisEnabled: false,
		DarkMode:          false,
	}
}

func defaultImmichConfig() any {
	return ImmichConfig{SyncInterval: 60}
}

func defaultMQTTConfig() any {
	return MQTTConfig{Port: 1883, Topic: "photoframe"}
}

func defaultNetworkLocations() any {
	return NetworkLocations{Locations: []NetworkLocation{}}
}

func defaultPhotoGenSettings() any {
	return PhotoGenSettings{DefaultStyle: "photorealistic", DailyLimit: 10}
}

func defaultPixabayConfig() any {
	return PixabayConfig{}
}

func defaultQRCodeSettings() any {
	return QRCodeSettings{Position: "bottom-right", Size: 100}
}

func defaultSpotifyConfig() any {
	return SpotifyConfig{RedirectURI: "http://localhost:5000/spotify/callback"}
}

func defaultUnsplashConfig() any {
	return UnsplashConfig{}
}

func defaultWeatherConfig() any {
	return WeatherConfig{Provider: "openweathermap", Units: "metric"}
}

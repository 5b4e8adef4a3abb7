package config

import "time"

// Config is the root configuration for one export run.
// It is immutable once loaded and is passed explicitly to the downloader.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Run     RunConfig     `yaml:"run"`
	Output  OutputConfig  `yaml:"output"`
	Report  ReportConfig  `yaml:"report"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
}

// APIConfig holds consensus API settings.
type APIConfig struct {
	Mode      string        `yaml:"mode"`       // "prod" or "metadata"
	APIKey    string        `yaml:"api_key"`    // x-api-key header value
	APISecret string        `yaml:"api_secret"` // HMAC secret for x-api-token
	BaseURL   string        `yaml:"base_url"`   // Optional override of the mode's endpoint
	Timeout   time.Duration `yaml:"timeout"`
}

// RunConfig selects what to download.
type RunConfig struct {
	Client     string   `yaml:"client"`
	SnapDate   string   `yaml:"snap_date"` // YYYY-MM-DD
	SnapTimes  []string `yaml:"snap_times"`
	AssetTypes []string `yaml:"asset_types"`
}

// OutputConfig selects where CSV files are written.
type OutputConfig struct {
	Dir       string `yaml:"dir"`        // Local directory (default: working directory)
	BucketURL string `yaml:"bucket_url"` // gocloud bucket URL; takes precedence over Dir
}

// ReportConfig holds optional run report settings.
type ReportConfig struct {
	XLSXPath string `yaml:"xlsx_path"`
}

// MetricsConfig holds Prometheus Pushgateway settings.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url"`
	Job            string `yaml:"job"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

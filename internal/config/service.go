package config

type ServiceConfig struct {
	Name        string       `yaml:"name"`
	Environment string       `yaml:"environment"`
	Version     string       `yaml:"version"`
	// ClientURL is the public base URL of the host application, used to
	// build checkout redirect URLs.
	ClientURL string       `yaml:"client_url"`
	Twikey    TwikeyConfig `yaml:"twikey"`
}

// TwikeyConfig holds the static part of the Twikey connection. The API key
// and the derived authorization token are persisted settings, not file
// config, so that re-authentication survives without a restart.
type TwikeyConfig struct {
	BaseURL string `yaml:"base_url"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	Output      string `yaml:"output"`
	FilePath    string `yaml:"file_path"`
	Development bool   `yaml:"development"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
}

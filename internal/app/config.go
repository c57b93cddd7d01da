package app

import (
	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the demo driver configuration, loadable from environment
// variables (SHOPLITE_ prefix), flags, or YAML config files.
type Config struct {
	StoreName string `default:"My E-Commerce Store" usage:"Display name for the demo store" flag:"store-name"`
	Output    string `default:"text" usage:"Demo output format: text or json"`
}

// LoadConfig loads configuration from environment variables, flags, and YAML
// config files.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "SHOPLITE",
		Files:     []string{"config.yaml", "/etc/shoplite/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	if cfg.Output != "text" && cfg.Output != "json" {
		return nil, errors.Errorf("unsupported output format %q", cfg.Output)
	}

	return &cfg, nil
}

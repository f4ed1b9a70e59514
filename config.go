// Package banquet wires configuration, flags and the shared collaborators used by the CLI.
package banquet

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/flanksource/commons/logger"
	"gopkg.in/yaml.v3"

	"github.com/flanksource/banquet/images"
	"github.com/flanksource/banquet/layout"
	"github.com/flanksource/banquet/quote"
	"github.com/flanksource/banquet/render"
)

const (
	EnvConfig   = "BANQUET_CONFIG"
	EnvAdminKey = "BANQUET_ADMIN_KEY"
)

// Config is the YAML configuration file.
type Config struct {
	// Template is a PNG, JPEG or SVG page background. Empty uses the built-in template.
	Template  string                          `yaml:"template,omitempty" json:"template,omitempty"`
	OutputDir string                          `yaml:"output_dir" json:"output_dir"`
	Store     string                          `yaml:"store,omitempty" json:"store,omitempty"`
	AdminKey  string                          `yaml:"admin_key,omitempty" json:"-"`
	Validate  bool                            `yaml:"validate" json:"validate"`
	Images    images.Options                  `yaml:"images" json:"images"`
	Brands    map[quote.BrandType]quote.Brand `yaml:"brands,omitempty" json:"brands,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		OutputDir: ".",
		Validate:  true,
		Images:    images.DefaultOptions(),
	}
}

// LoadConfig reads path over DefaultConfig. An empty path falls back to $BANQUET_CONFIG and then to
// the defaults alone. $BANQUET_ADMIN_KEY always wins over the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		logger.Debugf("loaded config from %s", path)
	}

	if key := os.Getenv(EnvAdminKey); key != "" {
		cfg.AdminKey = key
	}
	cfg.AdminKey = strings.TrimSpace(cfg.AdminKey)
	if cfg.Images.Timeout <= 0 {
		cfg.Images.Timeout = 20 * time.Second
	}
	return cfg, nil
}

// Assets loads the template and brand catalog. A missing or unreadable template fails here, before
// any document is rendered.
func (c Config) Assets() (layout.Assets, error) {
	catalog, err := quote.NewBrandCatalog(c.Brands)
	if err != nil {
		return layout.Assets{}, err
	}

	var template *images.Bitmap
	if c.Template != "" {
		template, err = images.LoadTemplate(c.Template)
	} else {
		template, err = images.DefaultTemplate()
	}
	if err != nil {
		return layout.Assets{}, err
	}
	return layout.Assets{Template: template, Brands: catalog}, nil
}

// NewRenderer builds a renderer and the resolver it owns. Callers close the resolver when done.
func (c Config) NewRenderer(creator string) (*render.Renderer, *images.Resolver, error) {
	assets, err := c.Assets()
	if err != nil {
		return nil, nil, err
	}
	resolver := images.NewResolver(c.Images)
	return &render.Renderer{
		Resolver: resolver,
		Engine:   layout.NewEngine(assets),
		Validate: c.Validate,
		Creator:  creator,
	}, resolver, nil
}

func (c Config) String() string {
	redacted := c
	if redacted.AdminKey != "" {
		redacted.AdminKey = "****"
	}
	data, _ := yaml.Marshal(redacted)
	return string(data)
}

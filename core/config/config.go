package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tristendillon/appdef/core/logger"
	"gopkg.in/yaml.v3"
)

const FileName = "appdef.yaml"

type Config struct {
	AppName string  `yaml:"app_name"`
	Server  Server  `yaml:"server"`
	Routes  Routes  `yaml:"routes"`
	Watch   Watch   `yaml:"watch"`
	Metrics Metrics `yaml:"metrics"`

	// Dir is the directory relative paths in the config resolve against.
	Dir string `yaml:"-"`
}

type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Routes describes the page directory layout.
type Routes struct {
	Dir          string `yaml:"dir"`
	RootLayout   string `yaml:"root_layout"`
	Extension    string `yaml:"extension"`
	IndexName    string `yaml:"index_name"`
	ErrorName    string `yaml:"error_name"`
	ErrorPath    string `yaml:"error_path"`
	LayoutExport string `yaml:"layout_export"`
	PageExport   string `yaml:"page_export"`
}

type Watch struct {
	// Debounce batches bursts of directory events. Zero means every event
	// triggers its own recompute.
	Debounce time.Duration `yaml:"debounce"`
}

type Metrics struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

func Default() *Config {
	return &Config{
		AppName: "appdef",
		Server: Server{
			Host: "localhost",
			Port: 8080,
		},
		Routes:  DefaultRoutes(),
		Metrics: Metrics{Enabled: true, Namespace: "appdef"},
	}
}

func DefaultRoutes() Routes {
	return Routes{
		Dir:          "app/routes",
		RootLayout:   "app/root.go",
		Extension:    ".go",
		IndexName:    "_index",
		ErrorName:    "errors",
		ErrorPath:    "errors/404",
		LayoutExport: "Layout",
		PageExport:   "Page",
	}
}

// RoutesDir returns the absolute routes directory.
func (c *Config) RoutesDir() string {
	return c.resolve(c.Routes.Dir)
}

// RootLayoutPath returns the absolute path of the root layout module.
func (c *Config) RootLayoutPath() string {
	return c.resolve(c.Routes.RootLayout)
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// fillDefaults backfills zero values left by a partial yaml file.
func (c *Config) fillDefaults() {
	def := Default()
	if c.AppName == "" {
		c.AppName = def.AppName
	}
	if c.Server.Host == "" {
		c.Server.Host = def.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	r, d := &c.Routes, def.Routes
	for _, f := range []struct {
		v *string
		d string
	}{
		{&r.Dir, d.Dir},
		{&r.RootLayout, d.RootLayout},
		{&r.Extension, d.Extension},
		{&r.IndexName, d.IndexName},
		{&r.ErrorName, d.ErrorName},
		{&r.ErrorPath, d.ErrorPath},
		{&r.LayoutExport, d.LayoutExport},
		{&r.PageExport, d.PageExport},
	} {
		if *f.v == "" {
			*f.v = f.d
		}
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = def.Metrics.Namespace
	}
}

func Load() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cannot determine working dir: %w", err)
	}
	return LoadFrom(filepath.Join(wd, FileName))
}

// LoadFrom reads the config at path. A missing file yields the default
// config rooted at the file's directory.
func LoadFrom(path string) (*Config, error) {
	dir := filepath.Dir(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Debug("No config file found, using default config")
		cfg := Default()
		cfg.Dir = dir
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Config{Metrics: Metrics{Enabled: true}}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	cfg.fillDefaults()
	cfg.Dir = dir
	logger.Debug("Config file found: %s", path)
	logger.Debug("Config: %+v", cfg)

	return &cfg, nil
}

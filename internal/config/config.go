package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yaml"

type DatabaseConfig struct {
	DSN             string        `yaml:"url"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Name            string        `yaml:"name"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type CollectionsConfig struct {
	Deals     string `yaml:"deals"`
	Expertise string `yaml:"expertise"`
}

type ReportConfig struct {
	Title    string `yaml:"title"`
	FontPath string `yaml:"font_path"`
}

type Config struct {
	App struct {
		Name     string `yaml:"name"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`
	Server struct {
		Port      int    `yaml:"port"`
		StaticDir string `yaml:"static_dir"`
		IndexFile string `yaml:"index_file"`
	} `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Collections CollectionsConfig `yaml:"collections"`
	Deals       struct {
		DefaultCategory string `yaml:"default_category"`
	} `yaml:"deals"`
	Report ReportConfig `yaml:"report"`
}

// LoadConfig reads CONFIG_PATH (or config/config.yaml) and panics when it cannot.
func LoadConfig() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultPath
	}
	cfg, err := Load(path)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return cfg
}

// Load decodes the yaml file at path, then applies environment overrides and defaults.
// A missing file is not an error: everything can come from the environment.
func Load(path string) (*Config, error) {
	var cfg Config

	f, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("open %s: %w", path, err)
	default:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(viper.New()); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = []struct {
	key string
	env string
}{
	{"server.port", "PORT"},
	{"server.static_dir", "STATIC_DIR"},
	{"app.log_level", "LOG_LEVEL"},
	{"database.url", "DATABASE_URL"},
	{"database.host", "DB_HOST"},
	{"database.port", "DB_PORT"},
	{"database.name", "DB_NAME"},
	{"database.user", "DB_USER"},
	{"database.password", "DB_PASSWORD"},
	{"database.sslmode", "DB_SSLMODE"},
}

// applyEnv overlays set, non-empty environment variables on top of the file values.
func (c *Config) applyEnv(v *viper.Viper) error {
	for _, b := range envBindings {
		if err := v.BindEnv(b.key, b.env); err != nil {
			return fmt.Errorf("bind %s: %w", b.env, err)
		}
	}

	for key, dst := range map[string]*int{
		"server.port":   &c.Server.Port,
		"database.port": &c.Database.Port,
	} {
		if !v.IsSet(key) {
			continue
		}
		n, err := cast.ToIntE(v.Get(key))
		if err != nil {
			return fmt.Errorf("%s: %w", envName(key), err)
		}
		*dst = n
	}

	for key, dst := range map[string]*string{
		"server.static_dir": &c.Server.StaticDir,
		"app.log_level":     &c.App.LogLevel,
		"database.url":      &c.Database.DSN,
		"database.host":     &c.Database.Host,
		"database.name":     &c.Database.Name,
		"database.user":     &c.Database.User,
		"database.password": &c.Database.Password,
		"database.sslmode":  &c.Database.SSLMode,
	} {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	return nil
}

func envName(key string) string {
	for _, b := range envBindings {
		if b.key == key {
			return b.env
		}
	}
	return key
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "crm-dashboard"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.StaticDir != "" && c.Server.IndexFile == "" {
		c.Server.IndexFile = "index.html"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 2
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 30 * time.Minute
	}
	if c.Collections.Deals == "" {
		c.Collections.Deals = "deals"
	}
	if c.Collections.Expertise == "" {
		c.Collections.Expertise = "expertise"
	}
	if c.Deals.DefaultCategory == "" {
		c.Deals.DefaultCategory = "기타"
	}
}

// ConnString returns the url if one is set, otherwise a libpq keyword/value string.
func (d DatabaseConfig) ConnString() string {
	if d.DSN != "" {
		return d.DSN
	}
	var parts []string
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+"="+quoteValue(v))
		}
	}
	add("host", d.Host)
	if d.Port != 0 {
		add("port", strconv.Itoa(d.Port))
	}
	add("dbname", d.Name)
	add("user", d.User)
	add("password", d.Password)
	add("sslmode", d.SSLMode)
	return strings.Join(parts, " ")
}

func quoteValue(v string) string {
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

// Package config loads client configuration from a YAML file, CLI flags,
// and the environment. Precedence, lowest to highest: defaults, YAML file,
// flags, environment.
package config

import (
	"flag"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/universiq/uvq/internal/services/market"
	"github.com/universiq/uvq/internal/storage/recommendations"
)

// Config runtime configuration for the client.
type Config struct {
	// BackendURL base URL of the analysis backend, e.g. "http://localhost:8000".
	BackendURL string
	// PollInterval market data refresh cadence.
	PollInterval time.Duration
	// WALDir directory of the recommendation journal.
	WALDir string
	// WebAddr listen address for the local web dashboard; empty disables it.
	WebAddr string
	// WebDomains non-empty switches the web dashboard to autocert HTTPS.
	WebDomains []string
	// CertCacheDir cache directory for ACME certificates.
	CertCacheDir string
	// LogPath log file; the TUI owns the terminal, so logs go to a file.
	LogPath string
	// Setup run the interactive configuration wizard instead of the client.
	Setup bool
}

type fileConfig struct {
	BackendURL   string        `yaml:"backend_url"`
	PollInterval time.Duration `yaml:"poll_interval"`
	WALDir       string        `yaml:"wal_dir"`
	WebAddr      string        `yaml:"web_addr"`
	WebDomains   []string      `yaml:"web_domains"`
	CertCacheDir string        `yaml:"cert_cache_dir"`
	LogPath      string        `yaml:"log_path"`
}

type envOverrides struct {
	BackendURL   string        `envconfig:"BACKEND_URL"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL"`
	WALDir       string        `envconfig:"WAL_DIR"`
	WebAddr      string        `envconfig:"WEB_ADDR"`
	LogPath      string        `envconfig:"LOG_PATH"`
}

// DefaultConfigPath where the setup wizard writes its output.
const DefaultConfigPath = "uvq.yaml"

// Get parses flags, then merges the optional YAML file and UVQ_* environment
// variables into a validated Config. A missing or unparseable backend URL is
// a startup error, not a runtime condition.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	backendURL := flag.String("backend", "", "backend base url, example: http://localhost:8000")
	pollInterval := flag.Duration("poll-interval", market.DefaultPollInterval, "market poll interval")
	walDir := flag.String("wal-dir", recommendations.DefaultDir, "recommendation journal directory")
	webAddr := flag.String("web", "", "web dashboard listen address, empty disables it")
	logPath := flag.String("log", "uvq.log", "log file path")
	setup := flag.Bool("setup", false, "run the interactive configuration wizard")
	flag.Parse()

	// flags explicitly set on the command line beat the config file
	setFlags := map[string]bool{}
	flag.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	cfg := Config{
		BackendURL:   *backendURL,
		PollInterval: *pollInterval,
		WALDir:       *walDir,
		WebAddr:      *webAddr,
		LogPath:      *logPath,
		Setup:        *setup,
	}

	if *configPath != "" {
		if err := cfg.applyFile(*configPath, setFlags); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if cfg.Setup {
		return cfg, nil
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string, setFlags map[string]bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read config %s", path)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return errors.Wrapf(err, "failed to parse config %s", path)
	}

	if !setFlags["backend"] && fc.BackendURL != "" {
		c.BackendURL = fc.BackendURL
	}
	if !setFlags["poll-interval"] && fc.PollInterval > 0 {
		c.PollInterval = fc.PollInterval
	}
	if !setFlags["wal-dir"] && fc.WALDir != "" {
		c.WALDir = fc.WALDir
	}
	if !setFlags["web"] && fc.WebAddr != "" {
		c.WebAddr = fc.WebAddr
	}
	if len(fc.WebDomains) > 0 {
		c.WebDomains = fc.WebDomains
	}
	if fc.CertCacheDir != "" {
		c.CertCacheDir = fc.CertCacheDir
	}
	if !setFlags["log"] && fc.LogPath != "" {
		c.LogPath = fc.LogPath
	}
	return nil
}

func (c *Config) applyEnv() error {
	// a missing .env file is fine; explicit environment still applies
	_ = godotenv.Load()

	var env envOverrides
	if err := envconfig.Process("uvq", &env); err != nil {
		return errors.Wrap(err, "failed to process environment")
	}

	if env.BackendURL != "" {
		c.BackendURL = env.BackendURL
	}
	if env.PollInterval > 0 {
		c.PollInterval = env.PollInterval
	}
	if env.WALDir != "" {
		c.WALDir = env.WALDir
	}
	if env.WebAddr != "" {
		c.WebAddr = env.WebAddr
	}
	if env.LogPath != "" {
		c.LogPath = env.LogPath
	}
	return nil
}

func (c *Config) validate() error {
	if c.BackendURL == "" {
		return errors.New("backend URL is required: set --backend, backend_url in the config file, or UVQ_BACKEND_URL")
	}
	parsed, err := url.Parse(c.BackendURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return errors.Errorf("invalid backend URL %q", c.BackendURL)
	}
	if c.PollInterval <= 0 {
		c.PollInterval = market.DefaultPollInterval
	}
	return nil
}

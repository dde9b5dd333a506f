package config

import (
	"os"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Pool    PoolConfig    `yaml:"pool"`
	Storage StorageConfig `yaml:"storage"`
	Pages   PagesConfig   `yaml:"pages"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	Environment string `yaml:"environment"`
}

type PoolConfig struct {
	Workers         int           `yaml:"workers"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type StorageConfig struct {
	Path      string        `yaml:"path"`
	Retention time.Duration `yaml:"retention"`
}

type PagesConfig struct {
	Dir        string        `yaml:"dir"`         // optional override for the embedded pages
	SleepDelay time.Duration `yaml:"sleep_delay"` // delay for the /sleep demo page
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	setDefaults(&cfg)
	return &cfg, nil
}

func LoadFromEnv() *Config {
	cfg := &Config{}

	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if workers := os.Getenv("TASKFLOW_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil {
			cfg.Pool.Workers = w
		}
	}
	if path := os.Getenv("TASKFLOW_DATA_PATH"); path != "" {
		cfg.Storage.Path = path
	}
	if dir := os.Getenv("TASKFLOW_PAGES_DIR"); dir != "" {
		cfg.Pages.Dir = dir
	}

	setDefaults(cfg)
	return cfg
}

func setDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3006
	}
	if cfg.Server.Environment == "" {
		cfg.Server.Environment = "development"
	}
	if cfg.Pool.Workers == 0 {
		cfg.Pool.Workers = runtime.NumCPU()
	}
	if cfg.Pool.ShutdownTimeout == 0 {
		cfg.Pool.ShutdownTimeout = 30 * time.Second
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "./data"
	}
	if cfg.Storage.Retention == 0 {
		cfg.Storage.Retention = 7 * 24 * time.Hour
	}
	if cfg.Pages.SleepDelay == 0 {
		cfg.Pages.SleepDelay = 5 * time.Second
	}
}

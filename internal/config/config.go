package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

type CrawlConfig struct {
	MaxPages      int  `yaml:"max_pages"`
	TimeoutSec    int  `yaml:"timeout_sec"`
	MaxRetries    int  `yaml:"max_retries"`
	RespectRobots bool `yaml:"respect_robots"`
}

type FallbackConfig struct {
	Workers    int `yaml:"workers"`
	DelayMS    int `yaml:"delay_ms"`
	TimeoutSec int `yaml:"timeout_sec"`
}

type DigestConfig struct {
	MaxOutputBytes int `yaml:"max_output_bytes"`
	// Categories beyond "other" allowed to appear more than once in
	// the retained page set.
	RepeatCategories []string `yaml:"repeat_categories"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type Config struct {
	Crawl    CrawlConfig    `yaml:"crawl"`
	Fallback FallbackConfig `yaml:"fallback"`
	Digest   DigestConfig   `yaml:"digest"`
	Server   ServerConfig   `yaml:"server"`
}

func Default() *Config {
	return &Config{
		Crawl: CrawlConfig{
			MaxPages:      15,
			TimeoutSec:    15,
			MaxRetries:    3,
			RespectRobots: true,
		},
		Fallback: FallbackConfig{
			Workers:    4,
			DelayMS:    500,
			TimeoutSec: 90,
		},
		Digest: DigestConfig{
			MaxOutputBytes:   7800,
			RepeatCategories: []string{"product"},
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads a YAML config file over the defaults. Keys absent from
// the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

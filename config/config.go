package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var configByte []byte

type Config struct {
	Log string `yaml:"log"`
	App struct {
		Port int `yaml:"port"`
	} `yaml:"app"`
	Backend struct {
		Url          string `yaml:"url"`
		PollInterval string `yaml:"poll-interval"`
	} `yaml:"backend"`
	Session struct {
		File    string `yaml:"file"`
		Passkey string `yaml:"passkey"`
	} `yaml:"session"`
}

func NewConfig() (*Config, error) {

	var ConfigInfo Config = Config{}

	err := yaml.Unmarshal(configByte, &ConfigInfo)
	if err != nil {
		return nil, err
	}

	return &ConfigInfo, nil
}

func (c Config) LogLevel() (zerolog.Level, error) {

	level, err := zerolog.ParseLevel(c.Log)
	if err != nil {
		return zerolog.InfoLevel, err
	}

	return level, nil
}

// PollInterval falls back to 10s when the configured value is missing
// or unparsable.
func (c Config) PollInterval() time.Duration {

	interval, err := time.ParseDuration(c.Backend.PollInterval)
	if err != nil || interval <= 0 {
		return 10 * time.Second
	}
	return interval
}

// SessionPath resolves the credentials file. Relative paths are
// anchored at the user home directory.
func (c Config) SessionPath() string {

	if filepath.IsAbs(c.Session.File) {
		return c.Session.File
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return c.Session.File
	}
	return filepath.Join(home, c.Session.File)
}

package istack

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the TOML-configurable settings for a stack process.
type Config struct {
	Stack   StackConfig  `toml:"stack"`
	Logging LogConfig    `toml:"logging"`
	Kafka   *KafkaConfig `toml:"kafka"`
}

// StackConfig locates the backing directory and the member file extension.
type StackConfig struct {
	Path      string
	Extension string
}

// LoadConfig loads a TOML configuration file, converting relative paths
// to absolute paths anchored at the config file's directory.
func LoadConfig(filename string) (*Config, error) {
	if filename == "" {
		return nil, fmt.Errorf("no configuration file specified")
	}
	var c Config
	if _, err := toml.DecodeFile(filename, &c); err != nil {
		return nil, fmt.Errorf("could not decode TOML config: %v", err)
	}
	if err := c.convertPathsToAbsolute(filename); err != nil {
		return nil, fmt.Errorf("could not convert relative paths to absolute paths in config %q: %v", filename, err)
	}
	return &c, nil
}

func (c *Config) convertPathsToAbsolute(configPath string) error {
	var err error
	configDir := filepath.Dir(configPath)

	if c.Stack.Path != "" && !filepath.IsAbs(c.Stack.Path) {
		c.Stack.Path, err = filepath.Abs(filepath.Join(configDir, c.Stack.Path))
		if err != nil {
			return err
		}
	}
	if c.Logging.Logfile != "" && !filepath.IsAbs(c.Logging.Logfile) {
		c.Logging.Logfile, err = filepath.Abs(filepath.Join(configDir, c.Logging.Logfile))
		if err != nil {
			return err
		}
	}
	return nil
}

// Initialize sets up logging and any configured kafka connection.
func (c *Config) Initialize(hostID string) error {
	c.Logging.SetLogger()
	if c.Kafka != nil {
		if err := c.Kafka.Initialize(hostID); err != nil {
			return err
		}
	}
	return nil
}

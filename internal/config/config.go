// Package config loads namadexer's YAML configuration, following the same
// env-var-override-then-default resolution the rest of the stack uses for
// its own startup wiring.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/blocklayer/namadexer/internal/errs"
)

const defaultConfigPath = "config/config.yaml"

// Config mirrors the on-disk YAML schema exactly: chain modules, node RPC
// settings, parsing behavior, database connection, and logging.
type Config struct {
	Chain    ChainConfig    `yaml:"chain"`
	Node     NodeConfig     `yaml:"node"`
	Parsing  ParsingConfig  `yaml:"parsing"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ChainConfig lists which indexer modules are active for this chain.
type ChainConfig struct {
	Modules []string `yaml:"modules"`
}

// NodeConfig wraps the node's RPC client settings.
type NodeConfig struct {
	Config NodeClientConfig `yaml:"config"`
}

// NodeClientConfig configures the CometBFT JSON-RPC HTTP client.
type NodeClientConfig struct {
	RPC RPCConfig `yaml:"rpc"`
}

// RPCConfig names the node endpoint and connection pool bound.
type RPCConfig struct {
	ClientName     string `yaml:"client_name"`
	Address        string `yaml:"address"`
	MaxConnections int    `yaml:"max_connections"`
}

// ParsingConfig controls worker count, backfill range, and genesis seeding.
type ParsingConfig struct {
	Workers          int    `yaml:"workers"`
	StartHeight      uint64 `yaml:"start_height"`
	ListenNewBlocks  bool   `yaml:"listen_new_blocks"`
	ParseOldBlocks   bool   `yaml:"parse_old_blocks"`
	ParseGenesis     bool   `yaml:"parse_genesis"`
	GenesisFilePath  string `yaml:"genesis_file_path"`
}

// DatabaseConfig names the relational store's connection string and pool size.
type DatabaseConfig struct {
	URL                string `yaml:"url"`
	MaxOpenConnections uint32 `yaml:"max_open_connections"`
}

// LoggingConfig selects verbosity and encoder for the shared logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the config file named by $CONFIG_PATH, falling back to
// config/config.yaml, parses it, and validates the result.
func Load() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}
	return LoadFile(path)
}

// LoadFile reads and validates the config at the given path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", errs.ErrInvalidConfig, path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", errs.ErrInvalidConfig, path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Node.Config.RPC.Address == "" {
		return fmt.Errorf("%w: node.config.rpc.address must not be empty", errs.ErrInvalidConfig)
	}
	if c.Parsing.Workers <= 0 {
		return fmt.Errorf("%w: parsing.workers must be positive", errs.ErrInvalidConfig)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("%w: database.url must not be empty", errs.ErrInvalidConfig)
	}
	if c.Parsing.ParseGenesis && c.Parsing.GenesisFilePath == "" {
		return fmt.Errorf("%w: parsing.genesis_file_path required when parse_genesis is true", errs.ErrInvalidConfig)
	}
	if len(c.Chain.Modules) == 0 {
		return fmt.Errorf("%w: chain.modules must list at least one module", errs.ErrInvalidConfig)
	}
	return nil
}

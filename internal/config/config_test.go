package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFile_Valid(t *testing.T) {
	path := writeTempConfig(t, `
chain:
  modules: ["staking", "governance", "consensus-time"]
node:
  config:
    rpc:
      client_name: "namadexer"
      address: "http://localhost:26657"
      max_connections: 20
parsing:
  workers: 4
  start_height: 1
  listen_new_blocks: true
  parse_old_blocks: true
  parse_genesis: false
database:
  url: "postgres://localhost/namada"
  max_open_connections: 10
logging:
  level: "info"
  format: "json"
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"staking", "governance", "consensus-time"}, cfg.Chain.Modules)
	assert.Equal(t, "http://localhost:26657", cfg.Node.Config.RPC.Address)
	assert.Equal(t, 4, cfg.Parsing.Workers)
	assert.Equal(t, uint64(1), cfg.Parsing.StartHeight)
}

func TestLoadFile_MissingWorkers(t *testing.T) {
	path := writeTempConfig(t, `
chain:
  modules: ["staking"]
node:
  config:
    rpc:
      address: "http://localhost:26657"
parsing:
  workers: 0
database:
  url: "postgres://localhost/namada"
logging:
  level: "info"
  format: "console"
`)

	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestLoadFile_GenesisRequiresPath(t *testing.T) {
	path := writeTempConfig(t, `
chain:
  modules: ["staking"]
node:
  config:
    rpc:
      address: "http://localhost:26657"
parsing:
  workers: 1
  parse_genesis: true
database:
  url: "postgres://localhost/namada"
logging:
  level: "info"
  format: "console"
`)

	_, err := LoadFile(path)
	require.Error(t, err)
}

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/farmbook/internal/paths"
	"github.com/mesh-intelligence/farmbook/internal/recordapi"
	"github.com/mesh-intelligence/farmbook/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyBackend         = "backend"
	cfgKeyDataDir         = "data_dir"
	cfgKeyRemoteBaseURL   = "remote.base_url"
	cfgKeyRemoteProjectID = "remote.project_id"
	cfgKeyRemotePublicKey = "remote.public_key"
	cfgKeyRemoteTimeout   = "remote.timeout"
	cfgKeyServeAddr       = "serve.addr"

	envPrefix = "FARMBOOK"

	defaultBackend   = types.BackendSQLite
	defaultServeAddr = ":8080"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# farmbook configuration

# Record store: memory, sqlite or remote
backend: sqlite

# Data directory for the sqlite backend (overridable by --data-dir)
# data_dir:

# Remote record API. Credentials may also be kept in .env next to this
# file as FARMBOOK_REMOTE_PROJECT_ID and FARMBOOK_REMOTE_PUBLIC_KEY.
remote:
  base_url: ""
  timeout: 30s

# Listen address for "farmbook serve"
serve:
  addr: ":8080"
`

// envKeys are the config keys that FARMBOOK_* variables override. data_dir
// is resolved separately so that config.yaml wins over the environment.
var envKeys = []string{
	cfgKeyBackend,
	cfgKeyRemoteBaseURL,
	cfgKeyRemoteProjectID,
	cfgKeyRemotePublicKey,
	cfgKeyRemoteTimeout,
	cfgKeyServeAddr,
}

// loadConfig reads config.yaml from configDir using Viper. It creates the
// config directory and a default config.yaml on first run, and loads the
// optional .env file into the environment first.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}
	if err := loadEnvFile(paths.EnvFile(configDir)); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyRemoteTimeout, recordapi.DefaultTimeout)
	v.SetDefault(cfgKeyServeAddr, defaultServeAddr)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	for _, key := range envKeys {
		env := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := paths.ConfigFile(configDir)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// loadEnvFile loads KEY=value pairs from path into the process environment.
// Variables already set win. A missing file is not an error.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// setConfigValue sets a top-level scalar key in the YAML file at path,
// keeping the rest of the document and its comments as they are.
func setConfigValue(path, key, value string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("parse %s: top level is not a mapping", path)
	}

	val := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
	replaced := false
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == key {
			root.Content[i+1] = val
			replaced = true
			break
		}
	}
	if !replaced {
		root.Content = append(root.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, val)
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return os.WriteFile(path, out, 0o644)
}

// storeConfig builds the record store configuration from flags and v.
func (a *app) storeConfig(v *viper.Viper) (types.Config, error) {
	backend := a.flags.backend
	if backend == "" {
		backend = v.GetString(cfgKeyBackend)
	}

	cfg := types.Config{
		Backend: backend,
		Remote: types.RemoteConfig{
			BaseURL:   v.GetString(cfgKeyRemoteBaseURL),
			ProjectID: v.GetString(cfgKeyRemoteProjectID),
			PublicKey: v.GetString(cfgKeyRemotePublicKey),
			Timeout:   v.GetDuration(cfgKeyRemoteTimeout),
		},
	}
	if backend == types.BackendSQLite {
		dataDir, err := paths.ResolveDataDir(a.flags.dataDir, v.GetString(cfgKeyDataDir))
		if err != nil {
			return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
		}
		cfg.DataDir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return types.Config{}, usagef("invalid configuration: %s (backend %q)", err, backend)
	}
	return cfg, nil
}

// config resolves the config directory and loads it.
func (a *app) config() (string, *viper.Viper, error) {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return "", nil, fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return "", nil, err
	}
	return configDir, v, nil
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/dlf/internal/index"
	"github.com/mesh-intelligence/dlf/internal/search"
	"github.com/mesh-intelligence/dlf/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "DLF"

	defaultServerAddr = ":8080"
	defaultLogLevel   = "info"
	defaultLogFormat  = "console"
)

// envKeys are the config keys that DLF_* variables may override. data_dir
// is resolved separately so the config file keeps precedence over
// DLF_DATA_DIR.
var envKeys = []string{
	"log.level",
	"log.format",
	"defaults_dir",
	"index.addresses",
	"index.username",
	"index.password",
	"index.api_key",
	"index.core_prefix",
	"server.addr",
}

// settings is the decoded configuration.
type settings struct {
	DataDir     string         `mapstructure:"data_dir"`
	DefaultsDir string         `mapstructure:"defaults_dir"`
	Log         logSettings    `mapstructure:"log"`
	Index       index.Config   `mapstructure:"index"`
	Server      serverSettings `mapstructure:"server"`
	List        listSettings   `mapstructure:"list"`
	Sites       []types.Site   `mapstructure:"sites"`
}

type logSettings struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type serverSettings struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

type listSettings struct {
	ItemsPerPage int `mapstructure:"items_per_page" yaml:"items_per_page"`
}

// configFile holds the structure written to config.yaml on first run.
type configFile struct {
	DataDir string         `yaml:"data_dir,omitempty"`
	Log     logSettings    `yaml:"log"`
	Index   indexFile      `yaml:"index"`
	Server  serverSettings `yaml:"server"`
	List    listSettings   `yaml:"list"`
	Sites   []types.Site   `yaml:"sites"`
}

type indexFile struct {
	Addresses  []string `yaml:"addresses"`
	CorePrefix string   `yaml:"core_prefix"`
	Timeout    string   `yaml:"timeout"`
}

func defaultConfigFile() configFile {
	return configFile{
		Log:    logSettings{Level: defaultLogLevel, Format: defaultLogFormat},
		Index:  indexFile{Addresses: []string{"http://localhost:9200"}, CorePrefix: index.DefaultCorePrefix, Timeout: "30s"},
		Server: serverSettings{Addr: defaultServerAddr},
		List:   listSettings{ItemsPerPage: search.DefaultItemsPerPage},
		Sites: []types.Site{{
			Identifier: "main",
			RootPageID: 1,
			Languages:  []types.Language{{ID: types.DefaultLanguageID, Locale: "en_US.UTF-8", Title: "English"}},
		}},
	}
}

// loadConfig reads config.yaml from configDir using Viper. It creates the
// config directory and a default config.yaml on first run.
func loadConfig(configDir string) (settings, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return settings{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := writeConfigIfMissing(filepath.Join(configDir, configFileExt)); err != nil {
		return settings{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)
	v.SetDefault("server.addr", defaultServerAddr)
	v.SetDefault("list.items_per_page", search.DefaultItemsPerPage)
	v.SetDefault("index.core_prefix", index.DefaultCorePrefix)
	v.SetDefault("index.timeout", 30*time.Second)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	for _, key := range envKeys {
		if err := v.BindEnv(key, envName(key)); err != nil {
			return settings{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return settings{}, fmt.Errorf("decode config: %w", err)
	}
	return s, nil
}

// envName maps "index.api_key" to DLF_INDEX_API_KEY.
func envName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. An existing file is left alone.
func writeConfigIfMissing(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	data, err := yaml.Marshal(defaultConfigFile())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# dlfctl configuration\n")
	return os.WriteFile(path, append(header, data...), 0o644)
}

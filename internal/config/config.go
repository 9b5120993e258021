package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds tkoview configuration
type Config struct {
	// Server is the base URL of the results server.
	Server string `yaml:"server"`
	// RPCPath is the endpoint the detailed test view RPC is posted to.
	RPCPath string `yaml:"rpc_path"`
	// LogFetchPath is the endpoint log contents are fetched through.
	LogFetchPath string `yaml:"log_fetch_path"`
	// ResultsPath is the prefix of the raw results tree on the server.
	ResultsPath string `yaml:"results_path"`
	// RetrieveLogsPath is the bulk logs page linked from the detail view.
	RetrieveLogsPath string `yaml:"retrieve_logs_path"`

	Timeout  time.Duration `yaml:"timeout"`
	LogLevel string        `yaml:"log_level"`
	DebugLog string        `yaml:"debug_log"`
}

type fileConfig struct {
	Server           string `yaml:"server"`
	RPCPath          string `yaml:"rpc_path"`
	LogFetchPath     string `yaml:"log_fetch_path"`
	ResultsPath      string `yaml:"results_path"`
	RetrieveLogsPath string `yaml:"retrieve_logs_path"`
	Timeout          string `yaml:"timeout"`
	LogLevel         string `yaml:"log_level"`
	DebugLog         string `yaml:"debug_log"`
}

// configFile is the name of the config file
const configFile = "config.yaml"

// configDirName is the name of the per-repo config directory
const configDirName = ".tkoview"

// Default returns the built-in configuration for a stock results server layout.
func Default() *Config {
	return &Config{
		Server:           "http://localhost:8000",
		RPCPath:          "/tko/server/rpc/",
		LogFetchPath:     "/tko/jsonp_fetcher",
		ResultsPath:      "/results/",
		RetrieveLogsPath: "/tko/retrieve_logs",
		Timeout:          30 * time.Second,
		LogLevel:         "info",
	}
}

// Load loads configuration with the following precedence (highest first):
// 1. Repo-local .tkoview/config.yaml in the current directory
// 2. Parent .tkoview/config.yaml files (searched upward from cwd)
// 3. Environment variables
// 4. Global ~/.config/tkoview/config.yaml
// 5. Built-in defaults
func Load() (*Config, error) {
	cfg := Default()

	// Load global config first (lowest precedence)
	globalPath := globalConfigPath()
	if globalPath != "" {
		if err := loadFromFile(globalPath, cfg); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	// Apply environment variables (higher precedence than global config)
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	// Load repo-local config files (highest precedence)
	repoPaths, err := findRepoConfigs()
	if err != nil {
		return nil, err
	}
	for _, repoPath := range repoPaths {
		if err := loadFromFile(repoPath, cfg); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	return cfg, nil
}

// findRepoConfigs searches upward from cwd for .tkoview/config.yaml files.
// Returned paths are ordered from furthest ancestor to closest (highest precedence last).
func findRepoConfigs() ([]string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	dir := cwd
	var paths []string
	for {
		configPath := filepath.Join(dir, configDirName, configFile)
		if _, err := os.Stat(configPath); err == nil {
			paths = append(paths, configPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	for i, j := 0, len(paths)-1; i < j; i, j = i+1, j-1 {
		paths[i], paths[j] = paths[j], paths[i]
	}

	return paths, nil
}

// globalConfigPath returns the path to global config
func globalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tkoview", configFile)
}

// loadFromFile loads config from a YAML file, merging into existing cfg.
// A relative debug_log path is resolved against the config file's parent
// directory (the repo root for .tkoview configs).
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Parse into a temporary struct to merge non-empty values
	var fileCfg fileConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	configDir := filepath.Dir(path)
	baseDir := configDir
	if filepath.Base(configDir) == configDirName {
		baseDir = filepath.Dir(configDir)
	}

	if fileCfg.Server != "" {
		cfg.Server = fileCfg.Server
	}
	if fileCfg.RPCPath != "" {
		cfg.RPCPath = fileCfg.RPCPath
	}
	if fileCfg.LogFetchPath != "" {
		cfg.LogFetchPath = fileCfg.LogFetchPath
	}
	if fileCfg.ResultsPath != "" {
		cfg.ResultsPath = fileCfg.ResultsPath
	}
	if fileCfg.RetrieveLogsPath != "" {
		cfg.RetrieveLogsPath = fileCfg.RetrieveLogsPath
	}
	if fileCfg.Timeout != "" {
		d, err := time.ParseDuration(fileCfg.Timeout)
		if err != nil {
			return fmt.Errorf("parse timeout in %s: %w", path, err)
		}
		cfg.Timeout = d
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.DebugLog != "" {
		cfg.DebugLog = resolvePathFromConfig(fileCfg.DebugLog, baseDir)
	}

	return nil
}

// resolvePathFromConfig resolves a path from a config file
// - Expands ~ to home directory
// - Makes relative paths absolute relative to baseDir
// - Returns absolute paths unchanged
func resolvePathFromConfig(path, baseDir string) string {
	if path == "" {
		return ""
	}

	if len(path) > 0 && path[0] == '~' {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[1:])
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	return path
}

// applyEnv applies environment variables to config
func applyEnv(cfg *Config) error {
	if v := os.Getenv("TKOVIEW_SERVER"); v != "" {
		cfg.Server = v
	}
	if v := os.Getenv("TKOVIEW_RPC_PATH"); v != "" {
		cfg.RPCPath = v
	}
	if v := os.Getenv("TKOVIEW_LOG_FETCH_PATH"); v != "" {
		cfg.LogFetchPath = v
	}
	if v := os.Getenv("TKOVIEW_RESULTS_PATH"); v != "" {
		cfg.ResultsPath = v
	}
	if v := os.Getenv("TKOVIEW_RETRIEVE_LOGS_PATH"); v != "" {
		cfg.RetrieveLogsPath = v
	}
	if v := os.Getenv("TKOVIEW_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse TKOVIEW_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	if v := os.Getenv("TKOVIEW_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TKOVIEW_DEBUG_LOG"); v != "" {
		cfg.DebugLog = v
	}
	return nil
}

// ExpandPath expands ~ and makes path absolute relative to base
func ExpandPath(path, base string) string {
	if path == "" {
		return ""
	}

	if len(path) > 0 && path[0] == '~' {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[1:])
	}

	if !filepath.IsAbs(path) && base != "" {
		path = filepath.Join(base, path)
	}

	return path
}

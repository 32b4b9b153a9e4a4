package tool

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/frvega/conversor-go/types"
)

var (
	ConfigPath    = "config.yaml" // be aware that it can be changed, default to ./config.yaml
	CurrentConfig types.AppConfig
)

func defaultConfig() types.AppConfig {
	return types.AppConfig{
		APIBase:               "http://localhost:5000",
		OutputDir:             ".",
		SessionFile:           "session.yaml",
		ConvertTimeoutSeconds: 600,
		MergeTimeoutSeconds:   300,
		Serve: types.ServeConfig{
			Port:          5000,
			TokenTTLHours: 8,
			MaxUploadSize: 50 * 1024 * 1024,
			Users: []types.UserEntry{
				{Username: "admin", Password: "admin123", Role: "admin"},
				{Username: "user", Password: "user123", Role: "user"},
			},
		},
	}
}

// generateSecret produces a random 32-byte HS256 signing key, hex encoded.
func generateSecret() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// LoadConfig reads the YAML config at path, creating it with defaults when it
// does not exist. A missing serve secret is generated and written back so
// tokens stay valid across restarts.
func LoadConfig(path string) (types.AppConfig, error) {
	if path == "" {
		path = ConfigPath
	}
	ConfigPath = path

	cfg := defaultConfig()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.Serve.Secret = generateSecret()
			if writeErr := writeConfig(path, cfg); writeErr != nil {
				return cfg, fmt.Errorf("config file not found, and failed to generate default config: %v", writeErr)
			}
			DefaultLogger.Infof("Created new config file with generated serve secret")
			CurrentConfig = cfg
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config file path is a directory: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %v", err)
	}

	if cfg.Serve.Secret == "" {
		cfg.Serve.Secret = generateSecret()
		DefaultLogger.Infof("Generated missing serve secret")
		if writeErr := writeConfig(path, cfg); writeErr != nil {
			DefaultLogger.Warnf("Failed to update config file: %v", writeErr)
		}
	}

	CurrentConfig = cfg
	return cfg, nil
}

func writeConfig(path string, cfg types.AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func GetCurrentConfig() *types.AppConfig {
	return &CurrentConfig
}

package util

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ReadConfig loads config.yaml from dir into the global viper instance.
func ReadConfig(dir string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(dir)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}

// ReadConfigFile is ReadConfig for an explicit file path.
func ReadConfigFile(path string) error {
	viper.SetConfigFile(filepath.Clean(path))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}

func SetDefaults() {
	viper.SetDefault("API_PORT", 5000)
	viper.SetDefault("API_TIMEOUT", "30s")
	viper.SetDefault("HTTP_SERVER_READ_TIMEOUT", "10s")
	viper.SetDefault("HTTP_SERVER_WRITE_TIMEOUT", "10s")
	viper.SetDefault("HTTP_SERVER_IDLE_TIMEOUT", "60s")
	viper.SetDefault("HTTP_SERVER_READ_HEADER_TIMEOUT", "5s")

	viper.SetDefault("SIMULATE_INTERVAL", 5*time.Second)
	viper.SetDefault("UPDATE_INTERVAL", 10*time.Second)
	viper.SetDefault("BURST_COUNT", 3)
	viper.SetDefault("MIN_CARS", 5)
	viper.SetDefault("MAX_CARS", 20)
	viper.SetDefault("SIGNAL_BATCH_SIZE", 10)
	viper.SetDefault("ROUTE_CACHE_SIZE", 1<<14)
	viper.SetDefault("RATE_LIMIT_RPS", 50)
	viper.SetDefault("RATE_LIMIT_BURST", 100)
	viper.SetDefault("USE_RATE_LIMIT", false)
	viper.SetDefault("RANDOM_SEED", 0)
	viper.SetDefault("JUNCTION_SEARCH_RADIUS", 2.0)
	viper.SetDefault("LOG_LEVEL", "info")
}

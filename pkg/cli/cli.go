package cli

import (
	"flag"
	"os"
	"strings"

	"go.uber.org/zap"
)

type Config struct {
	// Application flags
	Debug bool

	// Configuration flags
	ConfigPath string

	// Component enable flags (the HTTP trigger is always on; the Kafka
	// trigger additionally needs brokers configured)
	EnableConsumer bool
}

// Parse reads the command-line flags with environment variable fallbacks.
// The pattern: flag.XxxVar(&variable, "flag-name", defaultValueOrEnvValue, "help text")
func Parse() *Config {
	config := &Config{}

	flag.BoolVar(&config.Debug, "debug", getEnvBool("EMAILER_DEBUG", false),
		"Enable debug level logging")
	flag.StringVar(&config.ConfigPath, "config-path", getEnvString("EMAILER_CONFIG_PATH", ""),
		"Path to the emailer configuration file (defaults to ./config.yaml when present)")
	flag.BoolVar(&config.EnableConsumer, "enable-consumer", getEnvBool("EMAILER_ENABLE_CONSUMER", true),
		"Enable the Kafka trigger consumer. Requires kafka.brokers in the configuration")

	flag.Parse()

	return config
}

func (c *Config) Print(log *zap.SugaredLogger) {
	log.Infow("CLI configuration",
		"debug", c.Debug,
		"config_path", c.ConfigPath,
		"enable_consumer", c.EnableConsumer,
	)
}

func getEnvString(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvBool returns the value of an environment variable as a bool, or the provided default if not set.
// Valid true values are "true", "1", "yes" (case-insensitive).
func getEnvBool(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

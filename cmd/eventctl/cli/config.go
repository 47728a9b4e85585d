package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "EVENTCTL"

const (
	keyAPIURL      = "api.url"
	keyAPITimeout  = "api.timeout"
	keyTokenHeader = "api.token_header"
	keyTokenFile   = "token_file"
	keyLogLevel    = "log.level"
	keyPassword    = "password"
)

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "eventdesk", "token")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyAPIURL, "http://localhost:3001")
	v.SetDefault(keyAPITimeout, 10*time.Second)
	v.SetDefault(keyTokenHeader, "access_token")
	v.SetDefault(keyTokenFile, defaultTokenFile())
	v.SetDefault(keyLogLevel, "warn")
}

// initConfig reads .env files, the optional config file and EVENTCTL_*
// variables, in increasing priority.
func initConfig(v *viper.Viper, path string) error {
	for _, envFile := range []string{".env", ".env.local"} {
		// missing files are fine
		_ = godotenv.Load(envFile)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("eventctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "eventdesk"))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

package ipmiq

import (
	"fmt"

	"github.com/davidallendj/ipmiq/internal/util"
	"github.com/davidallendj/ipmiq/pkg/registry"
	"github.com/davidallendj/ipmiq/pkg/secrets"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// LoadConfig() will load a config file at the specified path. There are
// some general considerations about how this is done with spf13/viper:
//
// 1. There are intentionally no search paths set, so the config path has
// to be set explicitly
// 2. No data will be written to the config file from the tool
// 3. Parameters passed as CLI flags and environment variables should
// always have precedence over values set in the config.
func LoadConfig(path string) error {
	dir, filename, ext := util.SplitPathForViper(path)
	viper.AddConfigPath(dir)
	viper.SetConfigName(filename)
	viper.SetConfigType(ext)
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return fmt.Errorf("config file not found: %w", err)
		} else {
			return fmt.Errorf("failed to load config file: %w", err)
		}
	}
	return nil
}

// BuildSecretStore() picks the credential source for server definitions
// that omit their password: explicit --username/--password flags win,
// then the local encrypted store at secrets.file. Returns nil when
// neither is configured, which simply means passwords must be inline.
func BuildSecretStore() secrets.Store {
	if viper.IsSet("username") && viper.IsSet("password") {
		log.Debug().Msg("--username and --password specified, using them for BMC credentials")
		return secrets.NewStaticStore(viper.GetString("username"), viper.GetString("password"))
	}
	secretsFile := viper.GetString("secrets.file")
	if secretsFile == "" {
		return nil
	}
	store, err := secrets.Open(secretsFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to open local secret store")
		return nil
	}
	return store
}

// LoadRegistry() builds the server registry from the `servers` list in
// the loaded config. Each entry is a JSON-encoded string; see
// pkg/registry for the record schema and skip-on-invalid behavior.
func LoadRegistry() *registry.Registry {
	return registry.Load(viper.GetStringSlice("servers"), BuildSecretStore())
}

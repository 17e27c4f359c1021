package core

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env          string `mapstructure:"env"`
		Build        string `mapstructure:"build"`
		AppName      string `mapstructure:"appName"`
		Debug        bool   `mapstructure:"debug"`
		TestMode     bool   `mapstructure:"testMode"`
		ExportDir    string `mapstructure:"exportDir"`
		ExportLog    string `mapstructure:"exportLog"`
		RollbarToken string `mapstructure:"rollbarToken"`
		Admin        AdminConfig
	}

	// AdminConfig describes the bootstrap admin account created at start-up.
	AdminConfig struct {
		Name     string `mapstructure:"name"`
		Email    string `mapstructure:"email"`
		Password string `mapstructure:"password"`
	}
)

// LoadConfig reads the configuration from defaults, the optional config/.env.<env> file and the environment.
// Environment variables are prefixed by the ENV name, eg. DEV_EXPORTDIR or PROD_ADMIN_PASSWORD.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("build", "dev")
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "EduPlatform")
	v.SetDefault("exportDir", ".")
	v.SetDefault("exportLog", "export_log.txt")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("admin.name", "Administrator")
	v.SetDefault("admin.email", "admin@eduplatform.local")
	v.SetDefault("admin.password", "admin")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	case "PROD":
		v.SetDefault("debug", false)
	}
	v.SetDefault("env", env)
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	v.AutomaticEnv()

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	return &conf, nil
}

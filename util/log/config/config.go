package config

import (
	"github.com/spf13/viper"
)

// Log is the log config struct
type Log struct {
	Path   string `mapstructure:"path"`
	Env    string `mapstructure:"env"`
	Level  string `mapstructure:"level"`
	Stdout bool   `mapstructure:"stdout"`
}

// Defaults registers the default log settings in viper
func Defaults(v *viper.Viper) {
	v.SetDefault("log.path", "/var/log/schedtool.log")
	v.SetDefault("log.env", "dev")
	v.SetDefault("log.level", "warning")
	v.SetDefault("log.stdout", true)
}

// NewConfig loads log config
func NewConfig(v *viper.Viper) Log {
	log := Log{
		Path:   v.GetString("log.path"),
		Env:    v.GetString("log.env"),
		Level:  v.GetString("log.level"),
		Stdout: v.GetBool("log.stdout"),
	}
	if lvl := v.GetString("log-level"); lvl != "" {
		log.Level = lvl
	}
	return log
}

package conf

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	logconf "github.com/intel/schedtool/util/log/config"
)

var defaultConfigPath = []string{
	"/usr/local/etc/schedtool/",
	"/etc/schedtool/",
	"./etc/schedtool",
}

// Defaults registers all default settings
func Defaults(v *viper.Viper) {
	logconf.Defaults(v)
	v.SetDefault("output.format", "text")
}

// Init does config initial. A missing config file is not an error.
func Init(v *viper.Viper, confDir string) error {
	Defaults(v)
	v.SetConfigName("schedtool") // no need to include file extension
	if confDir != "" {
		v.AddConfigPath(confDir)
	}
	for _, p := range defaultConfigPath {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logrus.Debugf("No config file found from %v, fall back to using default setting", defaultConfigPath)
			return nil
		}
		return err
	}
	logrus.Debugf("Using config file %s", v.ConfigFileUsed())
	return nil
}

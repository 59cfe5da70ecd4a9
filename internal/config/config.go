package config

import (
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/LukaszMeyer/pms5003/internal/errors"
)

// Sensor models. The PMS5003T reports temperature and humidity in place of
// the two largest particle count bins.
const (
	ModelPMS5003  = "pms5003"
	ModelPMS5003T = "pms5003t"
)

const (
	DefaultBaudRate    = 9600
	DefaultLogLevel    = "info"
	DefaultMetricsAddr = ":9100"

	configEnvVar = "PMS5003_CONFIG"
	envPrefix    = "PMS5003"
)

type Config struct {
	Port        string `mapstructure:"port"`
	Baud        int    `mapstructure:"baud"`
	Average     int    `mapstructure:"average"`
	Model       string `mapstructure:"model"`
	LogLevel    string `mapstructure:"log_level"`
	Metrics     bool   `mapstructure:"metrics"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// Load reads configuration from flags, environment variables and an optional
// TOML config file, in that order of precedence. The config file is taken
// from $PMS5003_CONFIG when set, otherwise /etc/pms5003.toml.
func Load() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	v := viper.New()
	v.SetDefault("port", "")
	v.SetDefault("baud", DefaultBaudRate)
	v.SetDefault("average", 0)
	v.SetDefault("model", ModelPMS5003)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("metrics", false)
	v.SetDefault("metrics_addr", DefaultMetricsAddr)

	fs := pflag.NewFlagSet("pms5003", pflag.ContinueOnError)
	fs.String("port", "", "Serial port device (e.g. /dev/ttyUSB0)")
	fs.Int("baud", DefaultBaudRate, "Serial baud rate")
	fs.Int("average", 0, "Average over this many seconds, then emit once and exit (0 streams every frame)")
	fs.String("model", ModelPMS5003, "Sensor model: pms5003 or pms5003t")
	fs.String("log-level", DefaultLogLevel, "Log level: debug, info, warning or error")
	fs.Bool("metrics", false, "Expose prometheus metrics")
	fs.String("metrics-addr", DefaultMetricsAddr, "Metrics listen address")

	if err := fs.Parse(args); err != nil {
		return nil, errors.Wrap(errors.ErrBindFlags, err)
	}

	if path := os.Getenv(configEnvVar); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("pms5003")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(errors.ErrReadConfig, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	// Flags given on the command line override everything else
	flagKeys := map[string]string{
		"port":         "port",
		"baud":         "baud",
		"average":      "average",
		"model":        "model",
		"log-level":    "log_level",
		"metrics":      "metrics",
		"metrics-addr": "metrics_addr",
	}
	var visitErr error
	fs.Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		switch f.Value.Type() {
		case "int":
			n, err := fs.GetInt(f.Name)
			if err != nil {
				visitErr = errors.Wrap(errors.ErrBindFlags, err)
				return
			}
			v.Set(key, n)
		case "bool":
			b, err := fs.GetBool(f.Name)
			if err != nil {
				visitErr = errors.Wrap(errors.ErrBindFlags, err)
				return
			}
			v.Set(key, b)
		default:
			v.Set(key, f.Value.String())
		}
	})
	if visitErr != nil {
		return nil, visitErr
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks field values that have a closed set of valid inputs.
// The port itself is only required when the reader actually starts, so the
// driver checks it separately.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return errors.WithMessage(errors.ErrInvalidLogLevel, "invalid_log_level: "+c.LogLevel)
	}

	switch c.Model {
	case ModelPMS5003, ModelPMS5003T:
	default:
		return errors.WithMessage(errors.ErrInvalidModel, "invalid_model: "+c.Model)
	}

	if c.Average < 0 {
		return errors.New(errors.ErrInvalidWindow)
	}

	if c.Baud <= 0 {
		return errors.WithMessage(errors.ErrInvalidConfig, "baud rate must be positive")
	}

	return nil
}

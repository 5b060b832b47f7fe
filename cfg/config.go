package cfg

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type ConfigEntry interface {
	SetDefault()
	BindEnv()
	BindFlag(fs *flag.FlagSet)
}

type ConfigBase[T any] struct {
	Name         string
	Value        T
	DefaultValue T
	FlagHelp     string
	EnvVar       string
}

func (cb *ConfigBase[T]) SetDefault() {
	viper.SetDefault(cb.Name, cb.DefaultValue)
}

func (cb *ConfigBase[T]) BindEnv() {
	if cb.EnvVar == "" {
		return
	}
	viper.BindEnv(cb.Name, cb.EnvVar)
}

type StringConfig struct {
	ConfigBase[string]
}

func NewStringConfig(name string, defaultValue string, flagHelp string, envVar string) ConfigEntry {
	return &StringConfig{
		ConfigBase: ConfigBase[string]{
			Name:         name,
			DefaultValue: defaultValue,
			FlagHelp:     flagHelp,
			EnvVar:       envVar,
		},
	}
}

func (sc *StringConfig) BindFlag(fs *flag.FlagSet) {
	fs.StringVar(&sc.Value, sc.Name, sc.DefaultValue, sc.FlagHelp)
}

type IntConfig struct {
	ConfigBase[int]
}

func NewIntConfig(name string, defaultValue int, flagHelp string, envVar string) ConfigEntry {
	return &IntConfig{
		ConfigBase: ConfigBase[int]{
			Name:         name,
			DefaultValue: defaultValue,
			FlagHelp:     flagHelp,
			EnvVar:       envVar,
		},
	}
}

func (ic *IntConfig) BindFlag(fs *flag.FlagSet) {
	fs.IntVar(&ic.Value, ic.Name, ic.DefaultValue, ic.FlagHelp)
}

type Uint64Config struct {
	ConfigBase[uint64]
}

func NewUint64Config(name string, defaultValue uint64, flagHelp string, envVar string) ConfigEntry {
	return &Uint64Config{
		ConfigBase: ConfigBase[uint64]{
			Name:         name,
			DefaultValue: defaultValue,
			FlagHelp:     flagHelp,
			EnvVar:       envVar,
		},
	}
}

func (uc *Uint64Config) BindFlag(fs *flag.FlagSet) {
	fs.Uint64Var(&uc.Value, uc.Name, uc.DefaultValue, uc.FlagHelp)
}

type BoolConfig struct {
	ConfigBase[bool]
}

func NewBoolConfig(name string, defaultValue bool, flagHelp string, envVar string) ConfigEntry {
	return &BoolConfig{
		ConfigBase: ConfigBase[bool]{
			Name:         name,
			DefaultValue: defaultValue,
			FlagHelp:     flagHelp,
			EnvVar:       envVar,
		},
	}
}

func (bc *BoolConfig) BindFlag(fs *flag.FlagSet) {
	fs.BoolVar(&bc.Value, bc.Name, bc.DefaultValue, bc.FlagHelp)
}

type DurationConfig struct {
	ConfigBase[time.Duration]
}

func NewDurationConfig(name string, defaultValue time.Duration, flagHelp string, envVar string) ConfigEntry {
	return &DurationConfig{
		ConfigBase: ConfigBase[time.Duration]{
			Name:         name,
			DefaultValue: defaultValue,
			FlagHelp:     flagHelp,
			EnvVar:       envVar,
		},
	}
}

func (dc *DurationConfig) BindFlag(fs *flag.FlagSet) {
	fs.DurationVar(&dc.Value, dc.Name, dc.DefaultValue, dc.FlagHelp)
}

// InitConfig registers the entries with viper and the flag set, parses args
// and reads the config file given by --config, if any. Precedence is
// flag, environment, config file, default.
func InitConfig(fs *flag.FlagSet, args []string, entries []ConfigEntry) error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	var configFile string
	fs.StringVar(&configFile, "config", "", "config file location")
	logLevel := fs.String("log-level", "debug", "log level (debug, info, warn, error)")

	for _, e := range entries {
		e.SetDefault()
		e.BindEnv()
		e.BindFlag(fs)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := viper.BindPFlags(fs); err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)

	if configFile != "" {
		viper.SetConfigFile(configFile)
		viper.AddConfigPath(".")
		if err := viper.ReadInConfig(); err != nil {
			return err
		}
		log.Info().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	}
	return nil
}

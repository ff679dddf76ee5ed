// Package config loads settings for the sarproc host tool.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"sarproc/core"
	"sarproc/host/sim"
)

// Config is the full host tool configuration.
type Config struct {
	Sim     SimConfig     `mapstructure:"sim"`
	Serial  SerialConfig  `mapstructure:"serial"`
	Log     LogConfig     `mapstructure:"log"`
	Console ConsoleConfig `mapstructure:"console"`
}

// SimConfig describes the simulated analog front end.
type SimConfig struct {
	InputMilliVolt   uint32        `mapstructure:"input_mv"`
	VRefHMilliVolt   uint32        `mapstructure:"vrefh_mv"`
	BandGapMilliVolt uint32        `mapstructure:"bandgap_mv"`
	NoiseLSB         uint16        `mapstructure:"noise_lsb"`
	ConversionTime   time.Duration `mapstructure:"conversion_time"`
	Seed             int64         `mapstructure:"seed"`
	SignalChannel    uint8         `mapstructure:"signal_channel"`
	ReferenceChannel uint8         `mapstructure:"reference_channel"`
}

// SerialConfig selects the target's debug UART.
type SerialConfig struct {
	Device      string        `mapstructure:"device"`
	Baud        int           `mapstructure:"baud"`
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
	Debug bool   `mapstructure:"debug"` // Forward core debug output
}

// ConsoleConfig sizes the console input path.
type ConsoleConfig struct {
	InputBuffer int `mapstructure:"input_buffer"`
}

// EnvPrefix is the prefix of environment overrides, e.g. SARPROC_SIM_INPUT_MV.
const EnvPrefix = "SARPROC"

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	d := sim.DefaultConfig()
	v.SetDefault("sim.input_mv", d.InputMilliVolt)
	v.SetDefault("sim.vrefh_mv", d.VRefHMilliVolt)
	v.SetDefault("sim.bandgap_mv", d.BandGapMilliVolt)
	v.SetDefault("sim.noise_lsb", 3)
	v.SetDefault("sim.conversion_time", "100ms")
	v.SetDefault("sim.seed", d.Seed)
	v.SetDefault("sim.signal_channel", 0)
	v.SetDefault("sim.reference_channel", 1)

	v.SetDefault("serial.device", "/dev/ttyACM0")
	v.SetDefault("serial.baud", 115200)
	v.SetDefault("serial.read_timeout", "50ms")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "sarproc.log")
	v.SetDefault("log.debug", false)

	v.SetDefault("console.input_buffer", 64)
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path (if set) into v and decodes the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the simulator cannot represent.
func (c *Config) Validate() error {
	if c.Sim.VRefHMilliVolt == 0 {
		return errors.New("config: sim.vrefh_mv must be positive")
	}
	if c.Sim.InputMilliVolt > c.Sim.VRefHMilliVolt {
		return fmt.Errorf("config: sim.input_mv %d exceeds sim.vrefh_mv %d", c.Sim.InputMilliVolt, c.Sim.VRefHMilliVolt)
	}
	if c.Sim.SignalChannel == c.Sim.ReferenceChannel {
		return errors.New("config: signal and reference channels must differ")
	}
	if c.Console.InputBuffer < 2 {
		return errors.New("config: console.input_buffer must be at least 2")
	}
	return nil
}

// Peripheral converts the simulator section for host/sim.
func (s SimConfig) Peripheral() sim.Config {
	return sim.Config{
		InputMilliVolt:   s.InputMilliVolt,
		VRefHMilliVolt:   s.VRefHMilliVolt,
		BandGapMilliVolt: s.BandGapMilliVolt,
		NoiseLSB:         s.NoiseLSB,
		ConversionTime:   s.ConversionTime,
		Seed:             s.Seed,
	}
}

// Channels returns the conversion group layout.
func (s SimConfig) Channels() core.Channels {
	return core.Channels{
		Signal:    core.SARChannel(s.SignalChannel),
		Reference: core.SARChannel(s.ReferenceChannel),
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/dimcalc/internal/dimension"
	"github.com/san-kum/dimcalc/internal/slider"
	"github.com/san-kum/dimcalc/pkg/logger"
)

const (
	DefaultTheme   = "cyberpunk"
	DefaultDataDir = ".dimcalc"
	EnvPrefix      = "DIMCALC"

	DefaultDimMin    = 1.0
	DefaultDimMax    = 100.0
	DefaultDimStep   = 1.0
	DefaultVolumeMin = 1.0
	DefaultVolumeMax = 100000.0
	DefaultVolStep   = 100.0
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Defaults DefaultsConfig `yaml:"defaults" mapstructure:"defaults"`
	Ranges   RangesConfig   `yaml:"ranges" mapstructure:"ranges"`
	Theme    string         `yaml:"theme" mapstructure:"theme"`
	DataDir  string         `yaml:"data_dir" mapstructure:"data_dir"`
	Log      logger.Config  `yaml:"log" mapstructure:"log"`

	// Preset names the preset the defaults came from, if any.
	Preset string `yaml:"-" mapstructure:"-"`
}

// DefaultsConfig is the starting state of a session.
type DefaultsConfig struct {
	Length float64  `yaml:"length" mapstructure:"length"`
	Width  float64  `yaml:"width" mapstructure:"width"`
	Height float64  `yaml:"height" mapstructure:"height"`
	Volume float64  `yaml:"volume" mapstructure:"volume"`
	Locks  []string `yaml:"locks" mapstructure:"locks"`
}

type RangesConfig struct {
	Length slider.Range `yaml:"length" mapstructure:"length"`
	Width  slider.Range `yaml:"width" mapstructure:"width"`
	Height slider.Range `yaml:"height" mapstructure:"height"`
	Volume slider.Range `yaml:"volume" mapstructure:"volume"`
}

func DefaultConfig() *Config {
	dim := slider.Range{Min: DefaultDimMin, Max: DefaultDimMax, Step: DefaultDimStep}
	return &Config{
		Defaults: DefaultsConfig{
			Length: dimension.DefaultLength,
			Width:  dimension.DefaultWidth,
			Height: dimension.DefaultHeight,
			Volume: dimension.DefaultVolume,
			Locks:  []string{},
		},
		Ranges: RangesConfig{
			Length: dim,
			Width:  dim,
			Height: dim,
			Volume: slider.Range{Min: DefaultVolumeMin, Max: DefaultVolumeMax, Step: DefaultVolStep},
		},
		Theme:   DefaultTheme,
		DataDir: DefaultDataDir,
		Log:     logger.DefaultConfig(),
	}
}

// Load reads configuration with precedence env > file > defaults.
// An empty path looks for dimcalc.yaml in the working directory and
// $HOME/.config/dimcalc; a missing file there is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("dimcalc")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.config/dimcalc")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("defaults.length", cfg.Defaults.Length)
	v.SetDefault("defaults.width", cfg.Defaults.Width)
	v.SetDefault("defaults.height", cfg.Defaults.Height)
	v.SetDefault("defaults.volume", cfg.Defaults.Volume)
	v.SetDefault("defaults.locks", cfg.Defaults.Locks)

	for name, r := range map[string]slider.Range{
		"length": cfg.Ranges.Length,
		"width":  cfg.Ranges.Width,
		"height": cfg.Ranges.Height,
		"volume": cfg.Ranges.Volume,
	} {
		v.SetDefault("ranges."+name+".min", r.Min)
		v.SetDefault("ranges."+name+".max", r.Max)
		v.SetDefault("ranges."+name+".step", r.Step)
	}

	v.SetDefault("theme", cfg.Theme)
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.file", cfg.Log.File)
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that every range is usable and the defaults sit inside them.
func (c *Config) Validate() error {
	bank := c.Bank()
	for _, q := range dimension.Quantities {
		r := bank[q]
		if !r.Valid() {
			return fmt.Errorf("%w: range for %s %s", ErrInvalidConfig, q, r)
		}
		if r.Min <= 0 {
			return fmt.Errorf("%w: range for %s must be positive, got min %g", ErrInvalidConfig, q, r.Min)
		}
	}

	s, err := c.InitialState()
	if err != nil {
		return err
	}
	for _, q := range dimension.Quantities {
		if !bank[q].Contains(s.Get(q)) {
			return fmt.Errorf("%w: default %s %g outside %s", ErrInvalidConfig, q, s.Get(q), bank[q])
		}
	}
	return nil
}

// Bank returns the slider ranges keyed by quantity.
func (c *Config) Bank() slider.Bank {
	return slider.Bank{
		dimension.Length: c.Ranges.Length,
		dimension.Width:  c.Ranges.Width,
		dimension.Height: c.Ranges.Height,
		dimension.Volume: c.Ranges.Volume,
	}
}

// InitialState builds the controller's starting state from the defaults.
func (c *Config) InitialState() (dimension.State, error) {
	s := dimension.State{
		Length: c.Defaults.Length,
		Width:  c.Defaults.Width,
		Height: c.Defaults.Height,
		Volume: c.Defaults.Volume,
	}
	for _, name := range c.Defaults.Locks {
		q, err := dimension.ParseQuantity(name)
		if err != nil {
			return dimension.State{}, fmt.Errorf("%w: lock: %v", ErrInvalidConfig, err)
		}
		s.Locks |= dimension.Locks(q)
	}
	return s, nil
}

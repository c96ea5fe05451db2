// Package config handles the wizardvm.toml configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/ccoveille/go-safecast"
	"go.uber.org/zap"

	"github.com/Jdurairaj-hub/wizardvm/vm"
)

// Config represents a wizardvm.toml file.
type Config struct {
	Logging LoggingConfig  `toml:"logging"`
	API     APIConfig      `toml:"api"`
	Random  RandomConfig   `toml:"random"`
	Wizards []WizardConfig `toml:"wizards"`
}

type LoggingConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

type APIConfig struct {
	Listen string `toml:"listen"`
}

// RandomConfig bounds the attributes of randomly created wizards. A zero
// seed means a time based seed.
type RandomConfig struct {
	Seed int64 `toml:"seed"`
	Min  int64 `toml:"min"`
	Max  int64 `toml:"max"`
}

type WizardConfig struct {
	Health  int64 `toml:"health"`
	Wisdom  int64 `toml:"wisdom"`
	Agility int64 `toml:"agility"`
}

func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Level:       "info",
			Development: true,
		},
		API: APIConfig{
			Listen: ":8080",
		},
		Random: RandomConfig{
			Min: int64(vm.DefaultMinAttribute),
			Max: int64(vm.DefaultMaxAttribute),
		},
	}
}

// Load reads path on top of the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read %s: %w", path, err)
	}
	c, err := Parse(string(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func Parse(data string) (Config, error) {
	c := Default()
	md, err := toml.Decode(data, &c)
	if err != nil {
		return Config{}, fmt.Errorf("parse error: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if _, err := zap.ParseAtomicLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if len(c.Wizards) != 0 && len(c.Wizards) != vm.NumWizards {
		return fmt.Errorf("wizards: need 0 or %d entries, got %d", vm.NumWizards, len(c.Wizards))
	}
	for i, w := range c.Wizards {
		if _, err := w.Wizard(); err != nil {
			return fmt.Errorf("wizards[%d]: %w", i, err)
		}
	}
	min, err := safecast.ToInt32(c.Random.Min)
	if err != nil {
		return fmt.Errorf("random.min: %w", err)
	}
	max, err := safecast.ToInt32(c.Random.Max)
	if err != nil {
		return fmt.Errorf("random.max: %w", err)
	}
	if err := vm.ValidateRandomRange(min, max); err != nil {
		return fmt.Errorf("random: %w", err)
	}
	return nil
}

func (w WizardConfig) Wizard() (vm.Wizard, error) {
	health, err := safecast.ToInt32(w.Health)
	if err != nil {
		return vm.Wizard{}, fmt.Errorf("health: %w", err)
	}
	wisdom, err := safecast.ToInt32(w.Wisdom)
	if err != nil {
		return vm.Wizard{}, fmt.Errorf("wisdom: %w", err)
	}
	agility, err := safecast.ToInt32(w.Agility)
	if err != nil {
		return vm.Wizard{}, fmt.Errorf("agility: %w", err)
	}
	return vm.Wizard{Health: health, Wisdom: wisdom, Agility: agility}, nil
}

// VMOpts translates the configuration into machine options. Explicit wizards
// win over the random settings.
func (c Config) VMOpts() ([]vm.VMOpt, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if len(c.Wizards) == vm.NumWizards {
		first, _ := c.Wizards[0].Wizard()
		second, _ := c.Wizards[1].Wizard()
		return []vm.VMOpt{vm.WizardsOpt(first, second)}, nil
	}

	min, _ := safecast.ToInt32(c.Random.Min)
	max, _ := safecast.ToInt32(c.Random.Max)
	opts := []vm.VMOpt{vm.RandomRangeOpt(min, max)}
	if c.Random.Seed != 0 {
		opts = append(opts, vm.RandomOpt(vm.NewRandomSource(c.Random.Seed)))
	}
	return opts, nil
}

func (c Config) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("logging.level: %w", err)
	}
	zc := zap.NewProductionConfig()
	if c.Logging.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}

package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	BehaviorKindByMode        = "by_mode"
	BehaviorKindSpecificTable = "specific_table"
)

// Modes accepted for by_mode behaviors. An empty mode means lowest price.
const (
	BehaviorModeLowestPrice        = "lowest_price"
	BehaviorModeLowestDeliveryTime = "lowest_delivery_time"
)

type SurchargeConfig struct {
	Price        string `mapstructure:"price"`
	DeliveryDays int    `mapstructure:"delivery_days"`
}

// CubicConfig mirrors the volumetric weight settings. Decimal values are
// kept as strings and parsed when a behavior is built.
type CubicConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Factor     string `mapstructure:"factor"`
	Exemption  string `mapstructure:"exemption"`
	MaxWidth   string `mapstructure:"max_package_width"`
	MaxHeight  string `mapstructure:"max_package_height"`
	MaxLength  string `mapstructure:"max_package_length"`
	MaxEdgeSum string `mapstructure:"max_package_edges_sum"`
	MaxWeight  string `mapstructure:"max_package_weight"`
}

type BehaviorConfig struct {
	Name      string          `mapstructure:"name"`
	Kind      string          `mapstructure:"kind"`
	Mode      string          `mapstructure:"mode"`
	Tables    []string        `mapstructure:"tables"`
	Carriers  []string        `mapstructure:"carriers"`
	Table     string          `mapstructure:"table"`
	Surcharge SurchargeConfig `mapstructure:"surcharge"`
	Cubic     CubicConfig     `mapstructure:"cubic"`
}

type BehaviorsConfig struct {
	Behaviors []BehaviorConfig `mapstructure:"behaviors"`
}

func DefaultBehaviorsConfig() BehaviorsConfig {
	return BehaviorsConfig{
		Behaviors: []BehaviorConfig{
			{Name: "lowest_price", Kind: BehaviorKindByMode, Mode: "lowest_price"},
			{Name: "lowest_delivery_time", Kind: BehaviorKindByMode, Mode: "lowest_delivery_time"},
		},
	}
}

// BehaviorConfigHolder keeps the latest valid behavior configuration and
// swaps it when the file changes on disk.
type BehaviorConfigHolder struct {
	current atomic.Value // holds BehaviorsConfig
}

// NewStaticBehaviorConfigHolder returns a holder that never reloads.
func NewStaticBehaviorConfigHolder(cfg BehaviorsConfig) (*BehaviorConfigHolder, error) {
	if err := ValidateBehaviorsConfig(cfg); err != nil {
		return nil, err
	}
	holder := &BehaviorConfigHolder{}
	holder.current.Store(cfg)
	return holder, nil
}

func NewBehaviorConfigHolder(cfg Config, log *zap.Logger) (*BehaviorConfigHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("config.behaviors")

	v := viper.New()
	if cfg.BehaviorsPath != "" {
		v.SetConfigFile(cfg.BehaviorsPath)
	} else {
		v.SetConfigName("behaviors")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/shiptable")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SHIPTABLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		log.Info("behavior config not found, using defaults")
		return NewStaticBehaviorConfigHolder(DefaultBehaviorsConfig())
	}

	loaded, err := decodeBehaviors(v)
	if err != nil {
		return nil, err
	}

	holder := &BehaviorConfigHolder{}
	holder.current.Store(loaded)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeBehaviors(v)
		if err != nil {
			log.Warn("behavior config reload rejected", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("behavior config reloaded", zap.String("file", e.Name), zap.Int("behaviors", len(updated.Behaviors)))
	})

	return holder, nil
}

func decodeBehaviors(v *viper.Viper) (BehaviorsConfig, error) {
	var cfg BehaviorsConfig
	if err := v.UnmarshalKey("shipping", &cfg); err != nil {
		return BehaviorsConfig{}, err
	}
	if err := ValidateBehaviorsConfig(cfg); err != nil {
		return BehaviorsConfig{}, err
	}
	return cfg, nil
}

func (h *BehaviorConfigHolder) Get() BehaviorsConfig {
	return h.current.Load().(BehaviorsConfig)
}

func ValidateBehaviorsConfig(cfg BehaviorsConfig) error {
	if len(cfg.Behaviors) == 0 {
		return errors.New("shipping.behaviors cannot be empty")
	}
	seen := make(map[string]struct{}, len(cfg.Behaviors))
	for i, b := range cfg.Behaviors {
		name := strings.TrimSpace(b.Name)
		if name == "" {
			return fmt.Errorf("shipping.behaviors[%d].name is required", i)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("shipping.behaviors[%d]: duplicate name %q", i, name)
		}
		seen[name] = struct{}{}

		switch b.Kind {
		case BehaviorKindByMode:
			switch strings.ToLower(strings.TrimSpace(b.Mode)) {
			case "", BehaviorModeLowestPrice, BehaviorModeLowestDeliveryTime:
			default:
				return fmt.Errorf("behavior %q: unknown mode %q", name, b.Mode)
			}
			for _, carrier := range b.Carriers {
				if _, err := strconv.ParseInt(strings.TrimSpace(carrier), 10, 64); err != nil {
					return fmt.Errorf("behavior %q: invalid carrier id %q", name, carrier)
				}
			}
		case BehaviorKindSpecificTable:
			if strings.TrimSpace(b.Table) == "" {
				return fmt.Errorf("behavior %q: table is required", name)
			}
		default:
			return fmt.Errorf("behavior %q: unknown kind %q", name, b.Kind)
		}

		if b.Surcharge.DeliveryDays < 0 {
			return fmt.Errorf("behavior %q: surcharge delivery_days cannot be negative", name)
		}
		decimals := map[string]string{
			"surcharge.price":             b.Surcharge.Price,
			"cubic.factor":                b.Cubic.Factor,
			"cubic.exemption":             b.Cubic.Exemption,
			"cubic.max_package_width":     b.Cubic.MaxWidth,
			"cubic.max_package_height":    b.Cubic.MaxHeight,
			"cubic.max_package_length":    b.Cubic.MaxLength,
			"cubic.max_package_edges_sum": b.Cubic.MaxEdgeSum,
			"cubic.max_package_weight":    b.Cubic.MaxWeight,
		}
		for field, raw := range decimals {
			value, err := ParseDecimal(raw)
			if err != nil {
				return fmt.Errorf("behavior %q: invalid %s %q", name, field, raw)
			}
			if value.IsNegative() {
				return fmt.Errorf("behavior %q: %s cannot be negative", name, field)
			}
		}
	}
	return nil
}

// ParseDecimal treats an empty value as zero.
func ParseDecimal(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/shiptable/internal/config"
	shippingdomain "github.com/smallbiznis/shiptable/internal/shipping/domain"
	"github.com/smallbiznis/shiptable/internal/weight"
)

// Registry serves behaviors from the hot-reloaded behavior config. Every
// lookup reads the holder so a reload takes effect on the next quote.
type Registry struct {
	holder *config.BehaviorConfigHolder
}

func NewRegistry(holder *config.BehaviorConfigHolder) shippingdomain.Registry {
	return &Registry{holder: holder}
}

func (r *Registry) Lookup(name string) (shippingdomain.Behavior, error) {
	name = strings.TrimSpace(name)
	for _, cfg := range r.holder.Get().Behaviors {
		if strings.TrimSpace(cfg.Name) == name {
			return BehaviorFromConfig(cfg)
		}
	}
	return nil, shippingdomain.ErrBehaviorNotFound
}

func (r *Registry) List() []shippingdomain.Behavior {
	cfgs := r.holder.Get().Behaviors
	out := make([]shippingdomain.Behavior, 0, len(cfgs))
	for _, cfg := range cfgs {
		behavior, err := BehaviorFromConfig(cfg)
		if err != nil {
			continue
		}
		out = append(out, behavior)
	}
	return out
}

func BehaviorFromConfig(cfg config.BehaviorConfig) (shippingdomain.Behavior, error) {
	cfg.Name = strings.TrimSpace(cfg.Name)
	settings, err := settingsFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("behavior %q: %w", cfg.Name, err)
	}

	var behavior shippingdomain.Behavior
	switch cfg.Kind {
	case config.BehaviorKindByMode:
		mode, err := shippingdomain.ParseFetchMode(cfg.Mode)
		if err != nil {
			return nil, err
		}
		carriers := make([]snowflake.ID, 0, len(cfg.Carriers))
		for _, raw := range cfg.Carriers {
			id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("behavior %q: invalid carrier id %q", cfg.Name, raw)
			}
			carriers = append(carriers, snowflake.ID(id))
		}
		behavior = shippingdomain.ByModeBehavior{
			Name:             cfg.Name,
			Settings:         settings,
			Mode:             mode,
			TableIdentifiers: cfg.Tables,
			CarrierIDs:       carriers,
		}
	case config.BehaviorKindSpecificTable:
		behavior = shippingdomain.SpecificTableBehavior{
			Name:            cfg.Name,
			Settings:        settings,
			TableIdentifier: cfg.Table,
		}
	default:
		return nil, fmt.Errorf("behavior %q: unknown kind %q", cfg.Name, cfg.Kind)
	}

	if err := behavior.Validate(); err != nil {
		return nil, err
	}
	return behavior, nil
}

func settingsFromConfig(cfg config.BehaviorConfig) (shippingdomain.Settings, error) {
	var settings shippingdomain.Settings

	price, err := config.ParseDecimal(cfg.Surcharge.Price)
	if err != nil {
		return settings, shippingdomain.ErrInvalidSurcharge
	}
	settings.Surcharge = shippingdomain.Surcharge{Price: price, DeliveryDays: cfg.Surcharge.DeliveryDays}

	cubic := weight.CubicConfig{Enabled: cfg.Cubic.Enabled}
	if cubic.Factor, err = config.ParseDecimal(cfg.Cubic.Factor); err != nil {
		return settings, err
	}
	if cubic.Exemption, err = config.ParseDecimal(cfg.Cubic.Exemption); err != nil {
		return settings, err
	}
	if cubic.MaxWidth, err = config.ParseDecimal(cfg.Cubic.MaxWidth); err != nil {
		return settings, err
	}
	if cubic.MaxHeight, err = config.ParseDecimal(cfg.Cubic.MaxHeight); err != nil {
		return settings, err
	}
	if cubic.MaxLength, err = config.ParseDecimal(cfg.Cubic.MaxLength); err != nil {
		return settings, err
	}
	if cubic.MaxEdgeSum, err = config.ParseDecimal(cfg.Cubic.MaxEdgeSum); err != nil {
		return settings, err
	}
	if cubic.MaxWeight, err = config.ParseDecimal(cfg.Cubic.MaxWeight); err != nil {
		return settings, err
	}
	settings.Cubic = cubic
	return settings, nil
}

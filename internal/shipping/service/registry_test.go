package service

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/shiptable/internal/config"
	shippingdomain "github.com/smallbiznis/shiptable/internal/shipping/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookup(t *testing.T) {
	holder, err := config.NewStaticBehaviorConfigHolder(config.BehaviorsConfig{
		Behaviors: []config.BehaviorConfig{
			{
				Name:      "cheapest",
				Kind:      config.BehaviorKindByMode,
				Mode:      "lowest_price",
				Tables:    []string{"table-1"},
				Carriers:  []string{"42"},
				Surcharge: config.SurchargeConfig{Price: "23.4", DeliveryDays: 9},
				Cubic:     config.CubicConfig{Enabled: true, Factor: "6000", Exemption: "5"},
			},
			{Name: "fastest", Kind: config.BehaviorKindByMode, Mode: "lowest_delivery_time"},
			{Name: "pinned", Kind: config.BehaviorKindSpecificTable, Table: "table-2"},
		},
	})
	require.NoError(t, err)
	registry := NewRegistry(holder)

	behavior, err := registry.Lookup("cheapest")
	require.NoError(t, err)
	byMode, ok := behavior.(shippingdomain.ByModeBehavior)
	require.True(t, ok)
	assert.Equal(t, shippingdomain.FetchLowestPrice, byMode.Mode)
	assert.Equal(t, []string{"table-1"}, byMode.TableIdentifiers)
	assert.Equal(t, []snowflake.ID{42}, byMode.CarrierIDs)
	assert.Equal(t, "23.4", byMode.Surcharge.Price.String())
	assert.Equal(t, 9, byMode.Surcharge.DeliveryDays)
	assert.True(t, byMode.Cubic.Enabled)
	assert.Equal(t, "6000", byMode.Cubic.Factor.String())

	behavior, err = registry.Lookup(" pinned ")
	require.NoError(t, err)
	assert.Equal(t, shippingdomain.KindSpecificTable, behavior.Kind())

	_, err = registry.Lookup("nope")
	assert.ErrorIs(t, err, shippingdomain.ErrBehaviorNotFound)

	names := []string{}
	for _, b := range registry.List() {
		names = append(names, b.BehaviorName())
	}
	assert.Equal(t, []string{"cheapest", "fastest", "pinned"}, names)
}

func TestBehaviorFromConfigRejectsInvalid(t *testing.T) {
	_, err := BehaviorFromConfig(config.BehaviorConfig{Name: "x", Kind: config.BehaviorKindByMode, Mode: "fastest"})
	assert.ErrorIs(t, err, shippingdomain.ErrInvalidFetchMode)

	_, err = BehaviorFromConfig(config.BehaviorConfig{Name: "x", Kind: config.BehaviorKindSpecificTable})
	assert.ErrorIs(t, err, shippingdomain.ErrMissingTable)

	_, err = BehaviorFromConfig(config.BehaviorConfig{Name: "x", Kind: config.BehaviorKindByMode, Surcharge: config.SurchargeConfig{Price: "-1"}})
	assert.ErrorIs(t, err, shippingdomain.ErrInvalidSurcharge)

	_, err = BehaviorFromConfig(config.BehaviorConfig{Name: "x", Kind: "other"})
	assert.Error(t, err)
}

func TestRegistryTrimsConfiguredNames(t *testing.T) {
	holder, err := config.NewStaticBehaviorConfigHolder(config.BehaviorsConfig{
		Behaviors: []config.BehaviorConfig{{Name: "  padded  ", Kind: config.BehaviorKindByMode}},
	})
	require.NoError(t, err)
	registry := NewRegistry(holder)

	behavior, err := registry.Lookup("padded")
	require.NoError(t, err)
	assert.Equal(t, "padded", behavior.BehaviorName())

	list := registry.List()
	require.Len(t, list, 1)
	assert.Equal(t, "padded", list[0].BehaviorName())
}

func TestUnknownModeNeverReachesRegistry(t *testing.T) {
	_, err := config.NewStaticBehaviorConfigHolder(config.BehaviorsConfig{
		Behaviors: []config.BehaviorConfig{{Name: "fast", Kind: config.BehaviorKindByMode, Mode: "fastest"}},
	})
	assert.Error(t, err)

	// every mode the config accepts builds a behavior
	for _, mode := range []string{"", config.BehaviorModeLowestPrice, config.BehaviorModeLowestDeliveryTime} {
		_, err := BehaviorFromConfig(config.BehaviorConfig{Name: "m", Kind: config.BehaviorKindByMode, Mode: mode})
		assert.NoError(t, err, mode)
	}
}

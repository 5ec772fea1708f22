package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostalCodeRange(t *testing.T) {
	region := PostalCodeRange{Country: "BR", Start: 998000, End: 998999}

	assert.False(t, region.IsCompatible(Address{Country: "BR", PostalCode: "823131"}))
	assert.True(t, region.IsCompatible(Address{Country: "BR", PostalCode: "998001"}))
	assert.False(t, region.IsCompatible(Address{Country: "US", PostalCode: "998001"}))

	t.Run("bounds are inclusive", func(t *testing.T) {
		assert.True(t, region.IsCompatible(Address{Country: "BR", PostalCode: "998000"}))
		assert.True(t, region.IsCompatible(Address{Country: "BR", PostalCode: "998999"}))
		assert.False(t, region.IsCompatible(Address{Country: "BR", PostalCode: "999000"}))
	})

	t.Run("non digits are stripped", func(t *testing.T) {
		assert.True(t, region.IsCompatible(Address{Country: "BR", PostalCode: "998-001"}))
		assert.True(t, region.IsCompatible(Address{Country: "BR", PostalCode: " 99 80 01 "}))
	})

	t.Run("malformed postal codes never match", func(t *testing.T) {
		assert.False(t, region.IsCompatible(Address{Country: "BR"}))
		assert.False(t, region.IsCompatible(Address{Country: "BR", PostalCode: "ABC-DEF"}))
		assert.False(t, region.IsCompatible(Address{Country: "BR", PostalCode: "99999999999999999999999"}))
	})

	t.Run("only ascii digits are read", func(t *testing.T) {
		// 998001 in Arabic-Indic digits, then mixed with ASCII
		assert.False(t, region.IsCompatible(Address{Country: "BR", PostalCode: "٩٩٨٠٠١"}))
		assert.False(t, region.IsCompatible(Address{Country: "BR", PostalCode: "99٨001"}))

		code, ok := parsePostalCode("89060-201")
		require.True(t, ok)
		assert.EqualValues(t, 89060201, code)
		_, ok = parsePostalCode("٨٩٠٦٠")
		assert.False(t, ok)
	})

	t.Run("inverted range never matches", func(t *testing.T) {
		inverted := PostalCodeRange{Country: "BR", Start: 998999, End: 998000}
		assert.False(t, inverted.IsCompatible(Address{Country: "BR", PostalCode: "998500"}))
	})
}

func TestCountryMatch(t *testing.T) {
	region := CountryMatch{Country: "BR"}

	assert.False(t, region.IsCompatible(Address{Country: "US"}))
	assert.True(t, region.IsCompatible(Address{Country: "BR"}))
	assert.False(t, region.IsCompatible(Address{}))
}

func TestAddressMatch(t *testing.T) {
	region := AddressMatch{Country: "BR"}
	addr := Address{Country: "BR"}

	// country only
	assert.True(t, region.IsCompatible(addr))

	region.Region = "SC"
	addr.Region = "PR"
	assert.False(t, region.IsCompatible(addr))
	addr.Region = "SC"
	assert.True(t, region.IsCompatible(addr))

	addr.City = "Plumenau"
	region.City = "Indaiaba"
	assert.False(t, region.IsCompatible(addr))
	region.City = "Plumenau"
	assert.True(t, region.IsCompatible(addr))

	addr.Street1 = "R test"
	region.Street1 = "T tosta"
	assert.False(t, region.IsCompatible(addr))
	region.Street1 = "R test"
	assert.True(t, region.IsCompatible(addr))

	addr.Street2 = "R test"
	region.Street2 = "T tosta"
	assert.False(t, region.IsCompatible(addr))
	region.Street2 = "R test"
	assert.True(t, region.IsCompatible(addr))

	addr.Street3 = "R test"
	region.Street3 = "T tosta"
	assert.False(t, region.IsCompatible(addr))
	region.Street3 = "R test"
	assert.True(t, region.IsCompatible(addr))

	region = AddressMatch{Country: "BR", Street3: "T tosta"}
	assert.False(t, region.IsCompatible(addr))
	region.Street3 = "R test"
	assert.True(t, region.IsCompatible(addr))

	region.City = "sao paulo, santos, curitiba"
	assert.False(t, region.IsCompatible(addr))
	addr.City = "santos"
	assert.True(t, region.IsCompatible(addr))
	addr.City = "recife"
	assert.False(t, region.IsCompatible(addr))
	addr.City = "  Santos "
	assert.True(t, region.IsCompatible(addr))

	region.Region = "sp, rj, pr"
	assert.False(t, region.IsCompatible(addr))
	addr.Region = "sp"
	assert.True(t, region.IsCompatible(addr))

	region.Street1 = "st1, st2, st3"
	assert.False(t, region.IsCompatible(addr))
	addr.Street1 = "st3"
	assert.True(t, region.IsCompatible(addr))

	region.Street2 = "st4, st5, st6"
	assert.False(t, region.IsCompatible(addr))
	addr.Street2 = "st4"
	assert.True(t, region.IsCompatible(addr))

	region.Street3 = "st7, st8, st9"
	assert.False(t, region.IsCompatible(addr))
	addr.Street3 = "st9"
	assert.True(t, region.IsCompatible(addr))

	t.Run("required field missing on the address", func(t *testing.T) {
		r := AddressMatch{Country: "BR", City: "santos"}
		assert.False(t, r.IsCompatible(Address{Country: "BR"}))
	})

	t.Run("country mismatch", func(t *testing.T) {
		r := AddressMatch{Country: "BR"}
		assert.False(t, r.IsCompatible(Address{Country: "AR"}))
		assert.False(t, r.IsCompatible(Address{}))
	})
}

func TestRegionMatcher(t *testing.T) {
	pcr := NewPostalCodeRange("PCR", 1, "BR", 89060000, 89070000)
	m, err := pcr.Matcher()
	require.NoError(t, err)
	assert.Equal(t, PostalCodeRange{Country: "BR", Start: 89060000, End: 89070000}, m)
	assert.True(t, pcr.IsCompatible(Address{Country: "BR", PostalCode: "89060201"}))

	country := NewCountry("BR", 1, "BR")
	m, err = country.Matcher()
	require.NoError(t, err)
	assert.Equal(t, CountryMatch{Country: "BR"}, m)

	addr := NewAddress("Santos", 5, "BR")
	addr.City = "santos"
	m, err = addr.Matcher()
	require.NoError(t, err)
	assert.Equal(t, AddressMatch{Country: "BR", City: "santos"}, m)

	unknown := Region{Name: "x", Kind: Kind("planet"), Country: "BR"}
	_, err = unknown.Matcher()
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.False(t, unknown.IsCompatible(Address{Country: "BR"}))
}

func TestRegionValidate(t *testing.T) {
	assert.NoError(t, NewPostalCodeRange("ok", 1, "BR", 1, 2).Validate())
	assert.ErrorIs(t, NewPostalCodeRange("inverted", 1, "BR", 5, 2).Validate(), ErrInvalidPostalRange)
	assert.ErrorIs(t, NewCountry("", 1, "BR").Validate(), ErrInvalidName)
	assert.ErrorIs(t, NewCountry("no country", 1, "").Validate(), ErrInvalidCountry)
	assert.ErrorIs(t, Region{Name: "x", Country: "BR", Kind: "planet"}.Validate(), ErrUnknownKind)
	assert.ErrorIs(t, Region{Name: "x", Country: "BR", Kind: KindPostalCodeRange}.Validate(), ErrInvalidPostalRange)
}

package domain

import (
	"strconv"
	"strings"
	"unicode"
)

// Address is the destination an order ships to. Empty fields are treated
// as absent.
type Address struct {
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
	Region     string `json:"region"`
	City       string `json:"city"`
	Street1    string `json:"street1"`
	Street2    string `json:"street2"`
	Street3    string `json:"street3"`
}

// Matcher decides whether a region applies to a destination.
type Matcher interface {
	IsCompatible(addr Address) bool
}

// PostalCodeRange matches destinations whose numeric postal code falls
// within [Start, End] in the same country.
type PostalCodeRange struct {
	Country string
	Start   int64
	End     int64
}

func (r PostalCodeRange) IsCompatible(addr Address) bool {
	if strings.TrimSpace(addr.PostalCode) == "" || !sameCountry(addr.Country, r.Country) {
		return false
	}
	code, ok := parsePostalCode(addr.PostalCode)
	if !ok {
		return false
	}
	return r.Start <= code && code <= r.End
}

// CountryMatch matches every destination in one country.
type CountryMatch struct {
	Country string
}

func (r CountryMatch) IsCompatible(addr Address) bool {
	if strings.TrimSpace(addr.Country) == "" {
		return false
	}
	return sameCountry(addr.Country, r.Country)
}

// AddressMatch matches on country plus optional comma-separated lists of
// accepted sub-regions, cities and street lines.
type AddressMatch struct {
	Country string
	Region  string
	City    string
	Street1 string
	Street2 string
	Street3 string
}

func (r AddressMatch) IsCompatible(addr Address) bool {
	if strings.TrimSpace(addr.Country) == "" || !sameCountry(addr.Country, r.Country) {
		return false
	}

	checks := []struct {
		accepted string
		value    string
	}{
		{r.Region, addr.Region},
		{r.City, addr.City},
		{r.Street1, addr.Street1},
		{r.Street2, addr.Street2},
		{r.Street3, addr.Street3},
	}
	for _, check := range checks {
		if strings.TrimSpace(check.accepted) == "" {
			continue
		}
		if !matchesAny(check.accepted, check.value) {
			return false
		}
	}
	return true
}

func matchesAny(accepted, value string) bool {
	value = strings.ToUpper(strings.TrimSpace(value))
	if value == "" {
		return false
	}
	for _, token := range strings.Split(accepted, ",") {
		if strings.ToUpper(strings.TrimSpace(token)) == value {
			return true
		}
	}
	return false
}

func sameCountry(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// parsePostalCode keeps the ASCII digits of a postal code
// ("89060-201" -> 89060201). Codes written with other digit scripts are
// rejected rather than partially read.
func parsePostalCode(raw string) (int64, bool) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case '0' <= r && r <= '9':
			b.WriteByte(byte(r))
		case unicode.IsDigit(r):
			return 0, false
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	code, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return code, true
}

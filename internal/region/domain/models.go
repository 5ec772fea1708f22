package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Kind discriminates the stored region variants.
type Kind string

const (
	KindPostalCodeRange Kind = "postal_code_range"
	KindCountry         Kind = "country"
	KindAddress         Kind = "address"
)

var (
	ErrUnknownKind        = errors.New("unknown_region_kind")
	ErrInvalidCountry     = errors.New("invalid_region_country")
	ErrInvalidPostalRange = errors.New("invalid_postal_code_range")
	ErrInvalidName        = errors.New("invalid_region_name")
)

// Region is the persisted form of every region variant. Only the columns
// relevant to Kind are populated.
type Region struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"type:text;not null"`
	Description string       `json:"description,omitempty" gorm:"type:text"`
	Priority    int          `json:"priority" gorm:"not null;default:0;index"`
	Kind        Kind         `json:"kind" gorm:"type:text;not null"`
	Country     string       `json:"country" gorm:"type:text;not null"`

	StartPostalCode *int64 `json:"start_postal_code,omitempty"`
	EndPostalCode   *int64 `json:"end_postal_code,omitempty"`

	Region  string `json:"region,omitempty" gorm:"column:region;type:text"`
	City    string `json:"city,omitempty" gorm:"type:text"`
	Street1 string `json:"street1,omitempty" gorm:"type:text"`
	Street2 string `json:"street2,omitempty" gorm:"type:text"`
	Street3 string `json:"street3,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Region) TableName() string { return "shipping_regions" }

// Matcher returns the variant this row describes.
func (r Region) Matcher() (Matcher, error) {
	switch r.Kind {
	case KindPostalCodeRange:
		if r.StartPostalCode == nil || r.EndPostalCode == nil {
			return nil, ErrInvalidPostalRange
		}
		return PostalCodeRange{Country: r.Country, Start: *r.StartPostalCode, End: *r.EndPostalCode}, nil
	case KindCountry:
		return CountryMatch{Country: r.Country}, nil
	case KindAddress:
		return AddressMatch{
			Country: r.Country,
			Region:  r.Region,
			City:    r.City,
			Street1: r.Street1,
			Street2: r.Street2,
			Street3: r.Street3,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, r.Kind)
	}
}

// IsCompatible reports whether the region applies to addr. Rows that do
// not describe a valid variant never match.
func (r Region) IsCompatible(addr Address) bool {
	m, err := r.Matcher()
	if err != nil {
		return false
	}
	return m.IsCompatible(addr)
}

// Validate checks a region before it is written.
func (r Region) Validate() error {
	if r.Name == "" {
		return ErrInvalidName
	}
	if r.Country == "" {
		return ErrInvalidCountry
	}
	switch r.Kind {
	case KindPostalCodeRange:
		if r.StartPostalCode == nil || r.EndPostalCode == nil {
			return ErrInvalidPostalRange
		}
		if *r.StartPostalCode < 0 || *r.StartPostalCode > *r.EndPostalCode {
			return ErrInvalidPostalRange
		}
	case KindCountry, KindAddress:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, r.Kind)
	}
	return nil
}

// NewPostalCodeRange builds a postal-code-range region row.
func NewPostalCodeRange(name string, priority int, country string, start, end int64) Region {
	return Region{
		Name:            name,
		Priority:        priority,
		Kind:            KindPostalCodeRange,
		Country:         country,
		StartPostalCode: &start,
		EndPostalCode:   &end,
	}
}

// NewCountry builds a country region row.
func NewCountry(name string, priority int, country string) Region {
	return Region{Name: name, Priority: priority, Kind: KindCountry, Country: country}
}

// NewAddress builds an address region row. Street lines, city and region
// are set on the returned value.
func NewAddress(name string, priority int, country string) Region {
	return Region{Name: name, Priority: priority, Kind: KindAddress, Country: country}
}

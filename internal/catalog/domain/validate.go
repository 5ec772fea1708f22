package domain

import (
	"strings"

	"github.com/gosimple/slug"
)

func (c Carrier) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrInvalidCarrierName
	}
	return nil
}

func (t Table) Validate() error {
	if !slug.IsSlug(t.Identifier) {
		return ErrInvalidIdentifier
	}
	if strings.TrimSpace(t.Name) == "" {
		return ErrInvalidTableName
	}
	if t.CarrierID == 0 {
		return ErrInvalidCarrier
	}
	if t.StartDate != nil && t.EndDate != nil && t.StartDate.After(*t.EndDate) {
		return ErrInvalidDateRange
	}
	return nil
}

func (i TableItem) Validate() error {
	if i.TableID == 0 {
		return ErrInvalidTable
	}
	if i.RegionID == 0 {
		return ErrInvalidRegion
	}
	if i.StartWeight.IsNegative() || i.StartWeight.GreaterThan(i.EndWeight) {
		return ErrInvalidWeightRange
	}
	if i.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if i.DeliveryTime < 0 {
		return ErrInvalidDeliveryTime
	}
	return nil
}

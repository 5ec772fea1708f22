package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/shiptable/internal/observability/logger"
	"github.com/smallbiznis/shiptable/internal/packaging"
	regiondomain "github.com/smallbiznis/shiptable/internal/region/domain"
	shippingdomain "github.com/smallbiznis/shiptable/internal/shipping/domain"
)

// Packing walks every unit, so quotes are bounded in size.
const (
	maxLineQuantity = 10_000
	maxQuoteUnits   = 50_000
)

type quoteLineRequest struct {
	Quantity int             `json:"quantity"`
	Weight   decimal.Decimal `json:"weight_grams"`
	Width    decimal.Decimal `json:"width_mm"`
	Length   decimal.Decimal `json:"length_mm"`
	Height   decimal.Decimal `json:"height_mm"`
}

type createQuoteRequest struct {
	Behavior    string               `json:"behavior"`
	ShopID      snowflake.ID         `json:"shop_id"`
	Destination regiondomain.Address `json:"destination"`
	Lines       []quoteLineRequest   `json:"lines"`
}

type deliveryTimeResponse struct {
	MinDays int `json:"min_days"`
	MaxDays int `json:"max_days"`
}

type quoteResponse struct {
	ID             string                  `json:"id"`
	Behavior       string                  `json:"behavior"`
	Available      bool                    `json:"available"`
	Reasons        []shippingdomain.Reason `json:"reasons"`
	Price          *decimal.Decimal        `json:"price"`
	DeliveryTime   *deliveryTimeResponse   `json:"delivery_time"`
	TableItemID    *snowflake.ID           `json:"table_item_id"`
	TableID        *snowflake.ID           `json:"table_id"`
	RegionID       *snowflake.ID           `json:"region_id"`
	BillableWeight decimal.Decimal         `json:"billable_weight"`
	QuotedAt       time.Time               `json:"quoted_at"`
}

type behaviorResponse struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Mode  string `json:"mode,omitempty"`
	Table string `json:"table,omitempty"`
}

func (s *Server) CreateQuote(c *gin.Context) {
	var req createQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if err := validateQuoteRequest(req); err != nil {
		AbortWithError(c, err)
		return
	}

	behaviorName := strings.TrimSpace(req.Behavior)
	tagBehavior(c, behaviorName, req.ShopID.String())

	limit, err := s.quoteLimiter.AllowShop(c.Request.Context(), req.ShopID.String())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !limit.Allowed {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(limit.RetryAfter.Seconds()))))
		AbortWithError(c, ErrRateLimited)
		return
	}

	behavior, err := s.behaviors.Lookup(behaviorName)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	quote, err := s.shippingSvc.Quote(c.Request.Context(), behavior, toOrder(req))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Set(logger.KeyQuoteAvailable, quote.Available)

	c.JSON(http.StatusOK, gin.H{"data": newQuoteResponse(quote)})
}

func (s *Server) ListBehaviors(c *gin.Context) {
	behaviors := s.behaviors.List()
	resp := make([]behaviorResponse, 0, len(behaviors))
	for _, b := range behaviors {
		item := behaviorResponse{Name: b.BehaviorName(), Kind: b.Kind()}
		switch v := b.(type) {
		case shippingdomain.ByModeBehavior:
			item.Mode = string(v.Mode)
		case shippingdomain.SpecificTableBehavior:
			item.Table = v.TableIdentifier
		}
		resp = append(resp, item)
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func validateQuoteRequest(req createQuoteRequest) error {
	var errs []ValidationError
	if strings.TrimSpace(req.Behavior) == "" {
		errs = append(errs, ValidationError{Field: "behavior", Code: "required", Message: "behavior is required"})
	}
	if req.ShopID == 0 {
		errs = append(errs, ValidationError{Field: "shop_id", Code: shippingdomain.ErrInvalidShop.Error(), Message: "shop_id is required"})
	}
	if strings.TrimSpace(req.Destination.Country) == "" {
		errs = append(errs, ValidationError{Field: "destination.country", Code: "required", Message: "country is required"})
	}
	units := 0
	for _, line := range req.Lines {
		if line.Quantity < 0 || line.Weight.IsNegative() || line.Width.IsNegative() ||
			line.Length.IsNegative() || line.Height.IsNegative() {
			errs = append(errs, ValidationError{Field: "lines", Code: "invalid_line", Message: "line values cannot be negative"})
			break
		}
		if line.Quantity > maxLineQuantity {
			errs = append(errs, ValidationError{Field: "lines.quantity", Code: "too_large", Message: fmt.Sprintf("quantity cannot exceed %d", maxLineQuantity)})
			break
		}
		units += line.Quantity
		if units > maxQuoteUnits {
			errs = append(errs, ValidationError{Field: "lines", Code: "too_many_units", Message: fmt.Sprintf("a quote cannot hold more than %d units", maxQuoteUnits)})
			break
		}
	}
	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

func toOrder(req createQuoteRequest) shippingdomain.Order {
	lines := make([]packaging.Line, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, packaging.Line{
			Quantity: line.Quantity,
			Weight:   line.Weight,
			Width:    line.Width,
			Length:   line.Length,
			Height:   line.Height,
		})
	}
	return shippingdomain.Order{
		ShopID:      req.ShopID,
		Destination: req.Destination,
		Lines:       lines,
	}
}

func newQuoteResponse(q *shippingdomain.Quote) quoteResponse {
	resp := quoteResponse{
		ID:             q.ID,
		Behavior:       q.Behavior,
		Available:      q.Available,
		Reasons:        q.Reasons,
		BillableWeight: q.BillableWeight,
		QuotedAt:       q.QuotedAt,
	}
	if q.Match == nil {
		return resp
	}
	price := q.Price
	itemID, tableID, regionID := q.Match.Item.ID, q.Match.Item.TableID, q.Match.Region.ID
	resp.Price = &price
	resp.DeliveryTime = &deliveryTimeResponse{
		MinDays: q.DeliveryTime.MinDays(),
		MaxDays: q.DeliveryTime.MaxDays(),
	}
	resp.TableItemID = &itemID
	resp.TableID = &tableID
	resp.RegionID = &regionID
	return resp
}

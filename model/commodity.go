package model

import "strings"

// CommodityType distinguishes currencies from tradeable securities
type CommodityType int

const (
	CommodityTypeUnknown CommodityType = iota
	CommodityTypeCurrency
	CommodityTypeSecurity
)

// String returns the persisted name of the commodity type
func (t CommodityType) String() string {
	switch t {
	case CommodityTypeCurrency:
		return "currency"
	case CommodityTypeSecurity:
		return "security"
	default:
		return "unknown"
	}
}

// ParseCommodityType parses a commodity type name, ignoring case.
func ParseCommodityType(s string) (CommodityType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "currency":
		return CommodityTypeCurrency, nil
	case "security":
		return CommodityTypeSecurity, nil
	default:
		return CommodityTypeUnknown, &InvalidCommodityError{Reason: "invalid commodity type \"" + s + "\""}
	}
}

// Commodity is a currency or a security priced in a trading currency.
// It is immutable once created; ID is assigned on first save.
type Commodity struct {
	ID              int64
	Type            CommodityType
	Code            string
	Name            string
	TradingCurrency *Commodity
	TradingMarket   string
}

// NewCommodity creates and validates a commodity. Pass a trading currency
// for securities and nil for currencies.
func NewCommodity(typ CommodityType, code, name string, tradingCurrency *Commodity) (*Commodity, error) {
	c := &Commodity{
		Type:            typ,
		Code:            strings.TrimSpace(code),
		Name:            strings.TrimSpace(name),
		TradingCurrency: tradingCurrency,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the commodity invariants and reports every violation.
func (c *Commodity) Validate() error {
	var errs []error
	if c.Type != CommodityTypeCurrency && c.Type != CommodityTypeSecurity {
		errs = append(errs, &InvalidCommodityError{Code: c.Code, Reason: "invalid commodity type"})
	}
	if c.Code == "" {
		errs = append(errs, &InvalidCommodityError{Reason: "commodity must have a code"})
	}
	if c.Name == "" {
		errs = append(errs, &InvalidCommodityError{Code: c.Code, Reason: "commodity must have a name"})
	}
	switch c.Type {
	case CommodityTypeSecurity:
		if c.TradingCurrency == nil {
			errs = append(errs, &InvalidCommodityError{Code: c.Code, Reason: "security must have a trading currency"})
		} else if c.TradingCurrency.Type != CommodityTypeCurrency {
			errs = append(errs, &InvalidCommodityError{Code: c.Code, Reason: "trading currency must be a currency"})
		}
	case CommodityTypeCurrency:
		if c.TradingCurrency != nil {
			errs = append(errs, &InvalidCommodityError{Code: c.Code, Reason: "currency can't have a trading currency"})
		}
	}
	return collect(errs)
}

func (c *Commodity) String() string {
	return c.Code
}

package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OptionType is the side of the chain a run analyzes. A run never mixes types.
type OptionType string

const (
	Call OptionType = "CALL"
	Put  OptionType = "PUT"
)

// ParseOptionType accepts CALL or PUT in any case. Config, CLI flags and queued jobs
// all go through it.
func ParseOptionType(s string) (OptionType, bool) {
	switch t := OptionType(strings.ToUpper(strings.TrimSpace(s))); t {
	case Call, Put:
		return t, true
	default:
		return "", false
	}
}

// ContractRecord is a single option contract as emitted by the chain provider.
// Numeric fields that the provider omits (e.g. last on an untraded contract) decode as zero.
type ContractRecord struct {
	PutCall          string          `json:"putCall"`
	Symbol           string          `json:"symbol"`
	Description      string          `json:"description" validate:"required"`
	StrikePrice      decimal.Decimal `json:"strikePrice"`
	Bid              decimal.Decimal `json:"bid"`
	Ask              decimal.Decimal `json:"ask"`
	Last             decimal.Decimal `json:"last"`
	Delta            decimal.Decimal `json:"delta"`
	Theta            decimal.Decimal `json:"theta"`
	OpenInterest     int64           `json:"openInterest" validate:"gte=0"`
	InTheMoney       bool            `json:"inTheMoney"`
	DaysToExpiration int             `json:"daysToExpiration" validate:"gte=0"`
}

// UnmarshalJSON keeps bid and ask strict. Last and the Greeks are informational, so
// a NaN or null there decodes as zero instead of failing the chain.
func (r *ContractRecord) UnmarshalJSON(b []byte) error {
	type plain ContractRecord
	aux := struct {
		*plain
		Last  json.RawMessage `json:"last"`
		Delta json.RawMessage `json:"delta"`
		Theta json.RawMessage `json:"theta"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	var err error
	if r.Last, err = lenientDecimal(aux.Last); err != nil {
		return fmt.Errorf("last: %w", err)
	}
	if r.Delta, err = lenientDecimal(aux.Delta); err != nil {
		return fmt.Errorf("delta: %w", err)
	}
	if r.Theta, err = lenientDecimal(aux.Theta); err != nil {
		return fmt.Errorf("theta: %w", err)
	}
	return nil
}

// Contract is one option instrument at one strike/expiration. Immutable once built.
type Contract struct {
	Symbol           string          `json:"symbol,omitempty"`
	Description      string          `json:"description"`
	ExpirationDate   time.Time       `json:"expirationDate"`
	StrikePrice      decimal.Decimal `json:"strikePrice"`
	Bid              decimal.Decimal `json:"bid"`
	Ask              decimal.Decimal `json:"ask"`
	Last             decimal.Decimal `json:"last"`
	Delta            decimal.Decimal `json:"delta"`
	Theta            decimal.Decimal `json:"theta"`
	OpenInterest     int64           `json:"openInterest"`
	InTheMoney       bool            `json:"inTheMoney"`
	DaysToExpiration int             `json:"daysToExpiration"`
}

var two = decimal.NewFromInt(2)

// Mid is the bid/ask midpoint.
func (c Contract) Mid() decimal.Decimal {
	return c.Bid.Add(c.Ask).Div(two)
}

// NewContract builds a Contract from a provider record.
func NewContract(r *ContractRecord, expiration time.Time) Contract {
	return Contract{
		Symbol:           r.Symbol,
		Description:      r.Description,
		ExpirationDate:   expiration,
		StrikePrice:      r.StrikePrice,
		Bid:              r.Bid,
		Ask:              r.Ask,
		Last:             r.Last,
		Delta:            r.Delta,
		Theta:            r.Theta,
		OpenInterest:     r.OpenInterest,
		InTheMoney:       r.InTheMoney,
		DaysToExpiration: r.DaysToExpiration,
	}
}

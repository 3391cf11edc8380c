package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OptionChain is a provider snapshot for a single underlying. The per-side maps stay
// raw until a run asks for them, so a malformed put side never fails a call run.
type OptionChain struct {
	Symbol          string          `json:"symbol"`
	Status          string          `json:"status"`
	UnderlyingPrice decimal.Decimal `json:"-"`
	CallExpDateMap  json.RawMessage `json:"callExpDateMap"`
	PutExpDateMap   json.RawMessage `json:"putExpDateMap"`
}

// StatusSuccess is the provider status of a usable chain.
const StatusSuccess = "SUCCESS"

// DecodeChain parses a provider chain document. A document that is not JSON is a
// StructuralError; a non-success status maps to ErrUnknownSymbol.
func DecodeChain(b []byte) (*OptionChain, error) {
	var doc struct {
		OptionChain
		UnderlyingPrice json.RawMessage `json:"underlyingPrice"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, &StructuralError{Path: "$", Reason: "invalid document", Err: err}
	}
	c := doc.OptionChain
	if c.Status != "" && !strings.EqualFold(c.Status, StatusSuccess) {
		return nil, fmt.Errorf("%w: status %s for %q", ErrUnknownSymbol, c.Status, c.Symbol)
	}
	price, err := lenientDecimal(doc.UnderlyingPrice)
	if err != nil {
		return nil, &StructuralError{Path: "underlyingPrice", Reason: "not a number", Err: err}
	}
	c.UnderlyingPrice = price
	return &c, nil
}

// ExpDateMap decodes the expiration map for one side of the chain.
func (c *OptionChain) ExpDateMap(t OptionType) (ExpirationMap, error) {
	var (
		raw  json.RawMessage
		path string
	)
	switch t {
	case Call:
		raw, path = c.CallExpDateMap, "callExpDateMap"
	case Put:
		raw, path = c.PutExpDateMap, "putExpDateMap"
	default:
		return nil, fmt.Errorf("unknown option type %q", t)
	}
	if len(raw) == 0 || isNull(raw) {
		return nil, &StructuralError{Path: path, Reason: "missing"}
	}
	var m ExpirationMap
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, &StructuralError{Path: path, Reason: "malformed", Err: err}
	}
	return m, nil
}

// ExpirationMap is the provider's expiration -> strike -> contracts nesting.
// It keeps keys in document order; a nil map means the level was absent or null.
type ExpirationMap []ExpirationEntry

type ExpirationEntry struct {
	Key     string
	Strikes StrikeMap
}

type StrikeMap []StrikeEntry

type StrikeEntry struct {
	Key       string
	Contracts []*ContractRecord
}

func (m *ExpirationMap) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		*m = nil
		return nil
	}
	out := ExpirationMap{}
	err := decodeOrderedObject(b, func(key string, raw json.RawMessage) error {
		var strikes StrikeMap
		if err := json.Unmarshal(raw, &strikes); err != nil {
			return fmt.Errorf("expiration %q: %w", key, err)
		}
		out = append(out, ExpirationEntry{Key: key, Strikes: strikes})
		return nil
	})
	if err != nil {
		return err
	}
	*m = out
	return nil
}

func (m *StrikeMap) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		*m = nil
		return nil
	}
	out := StrikeMap{}
	err := decodeOrderedObject(b, func(key string, raw json.RawMessage) error {
		var contracts []*ContractRecord
		if err := json.Unmarshal(raw, &contracts); err != nil {
			return fmt.Errorf("strike %q: %w", key, err)
		}
		out = append(out, StrikeEntry{Key: key, Contracts: contracts})
		return nil
	})
	if err != nil {
		return err
	}
	*m = out
	return nil
}

func isNull(b []byte) bool {
	return bytes.Equal(bytes.TrimSpace(b), []byte("null"))
}

// lenientDecimal decodes a provider number. Absent values, null and the non-finite
// markers the provider emits for untraded contracts decode as zero.
func lenientDecimal(raw json.RawMessage) (decimal.Decimal, error) {
	switch strings.Trim(string(bytes.TrimSpace(raw)), `"`) {
	case "", "null", "NaN", "Infinity", "-Infinity":
		return decimal.Zero, nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(raw); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// decodeOrderedObject walks a JSON object and calls fn for each member in document order.
func decodeOrderedObject(b []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("member %q: %w", key, err)
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}

// ExpirationKey is the typed form of a provider expiration key such as "2024-01-19:30".
type ExpirationKey struct {
	Date time.Time
	DTE  int
}

const expirationDateLayout = "2006-01-02"

// ParseExpirationKey parses "YYYY-MM-DD" with an optional ":DTE" suffix.
// DTE is -1 when the suffix is absent.
func ParseExpirationKey(s string) (ExpirationKey, error) {
	datePart, dtePart, hasDTE := strings.Cut(s, ":")
	d, err := time.Parse(expirationDateLayout, datePart)
	if err != nil {
		return ExpirationKey{}, fmt.Errorf("expiration date %q: %w", s, err)
	}
	k := ExpirationKey{Date: d, DTE: -1}
	if hasDTE {
		n, err := strconv.Atoi(dtePart)
		if err != nil || n < 0 {
			return ExpirationKey{}, fmt.Errorf("expiration dte %q: invalid", s)
		}
		k.DTE = n
	}
	return k, nil
}

// ParseStrikeKey parses a provider strike key such as "105.0".
func ParseStrikeKey(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("strike %q: %w", s, err)
	}
	return d, nil
}

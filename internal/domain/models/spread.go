package models

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ExpirationGroups maps days-to-expiration to in-the-money contracts sorted ascending by strike.
type ExpirationGroups map[int][]Contract

// DTEs returns the group keys in ascending order.
func (g ExpirationGroups) DTEs() []int {
	keys := make([]int, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Spread pairs two contracts from the same expiration group.
// LongLeg always has the lower strike.
type Spread struct {
	LongLeg            Contract
	ShortLeg           Contract
	SpreadWidth        decimal.Decimal
	EstimatedCost      decimal.Decimal
	ProfitPotentialPct decimal.Decimal
	NetDelta           decimal.Decimal
	NetTheta           decimal.Decimal
	DaysToExpiration   int
}

// SpreadRecord is the flat, sink-facing form of a Spread. Field order is the CSV column order.
type SpreadRecord struct {
	SpreadDTE           int     `csv:"spreadDTE" json:"spreadDTE"`
	ProfitPotentialPct  float64 `csv:"profitPotentialPct" json:"profitPotentialPct"`
	EstimatedCost       float64 `csv:"estimatedCost" json:"estimatedCost"`
	LongLegDescription  string  `csv:"longLegDescription" json:"longLegDescription"`
	ShortLegDescription string  `csv:"shortLegDescription" json:"shortLegDescription"`
	SpreadWidth         float64 `csv:"spreadWidth" json:"spreadWidth"`
	NetDelta            float64 `csv:"netDelta" json:"netDelta"`
	NetTheta            float64 `csv:"netTheta" json:"netTheta"`
	LongLegDetails      string  `csv:"longLegDetails" json:"-"`
	ShortLegDetails     string  `csv:"shortLegDetails" json:"-"`

	LongLeg  Contract `csv:"-" json:"longLegDetails"`
	ShortLeg Contract `csv:"-" json:"shortLegDetails"`
}

// Record flattens the spread for serialization.
func (s Spread) Record() SpreadRecord {
	return SpreadRecord{
		SpreadDTE:           s.DaysToExpiration,
		ProfitPotentialPct:  s.ProfitPotentialPct.InexactFloat64(),
		EstimatedCost:       s.EstimatedCost.InexactFloat64(),
		LongLegDescription:  s.LongLeg.Description,
		ShortLegDescription: s.ShortLeg.Description,
		SpreadWidth:         s.SpreadWidth.InexactFloat64(),
		NetDelta:            s.NetDelta.InexactFloat64(),
		NetTheta:            s.NetTheta.InexactFloat64(),
		LongLegDetails:      contractJSON(s.LongLeg),
		ShortLegDetails:     contractJSON(s.ShortLeg),
		LongLeg:             s.LongLeg,
		ShortLeg:            s.ShortLeg,
	}
}

// Records flattens a slice of spreads.
func Records(ss []Spread) []SpreadRecord {
	out := make([]SpreadRecord, len(ss))
	for i, s := range ss {
		out[i] = s.Record()
	}
	return out
}

func contractJSON(c Contract) string {
	b, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return string(b)
}

// StageCounts records how many items survived each pipeline stage.
type StageCounts struct {
	Contracts  int `json:"contracts"`
	Liquid     int `json:"liquid"`
	InTheMoney int `json:"inTheMoney"`
	Groups     int `json:"groups"`
	Candidates int `json:"candidates"`
	Kept       int `json:"kept"`
}

// AnalysisResult is the output of one pass of the spread engine.
type AnalysisResult struct {
	Spreads []Spread
	Counts  StageCounts
}

// ScanResult is the outcome of scanning one symbol and option type.
type ScanResult struct {
	Symbol     string         `json:"symbol"`
	OptionType OptionType     `json:"optionType"`
	RunAt      time.Time      `json:"runAt"`
	Counts     StageCounts    `json:"counts"`
	Spreads    []SpreadRecord `json:"spreads"`
	Err        error          `json:"-"`
}

// Failed reports whether the scan ended with an error.
func (r *ScanResult) Failed() bool { return r.Err != nil }

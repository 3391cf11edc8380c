package models

// SpreadRequest is the query for the on-demand spreads endpoint. A nil MinProfit
// means the configured threshold; an explicit 0 keeps every positive spread.
type SpreadRequest struct {
	Symbol    string   `query:"symbol" json:"symbol" validate:"required,min=1,max=12"`
	Type      string   `query:"type" json:"type" default:"CALL" validate:"oneof=CALL PUT call put"`
	MinProfit *float64 `query:"min_profit" json:"min_profit" validate:"omitempty,gte=0,lte=100"`
}

// LatestSpreadsRequest is the query for stored results of the most recent scan.
type LatestSpreadsRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,min=1,max=12"`
	Type   string `query:"type" json:"type" default:"CALL" validate:"oneof=CALL PUT call put"`
	Limit  int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}

// ScanRequest is the body for queueing background scans.
type ScanRequest struct {
	Symbols []string `json:"symbols" validate:"required,min=1,max=50,dive,min=1,max=12"`
	Types   []string `json:"types" validate:"omitempty,dive,oneof=CALL PUT call put"`
}

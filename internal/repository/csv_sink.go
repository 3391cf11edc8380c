package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"FinSpread/internal/domain/models"
	"FinSpread/pkg/util"

	"github.com/gocarina/gocsv"
)

// CSVSink writes each scan to <dir>/<SYMBOL>_<TYPE>_<YYYY_MM_DD>.csv.
// A scan with no surviving spreads still produces a header-only file.
type CSVSink struct {
	dir string
}

func NewCSVSink(dir string) *CSVSink {
	if dir == "" {
		dir = "."
	}
	return &CSVSink{dir: dir}
}

func (s *CSVSink) Name() string { return "csv" }

// Path returns the file a scan result is written to.
func (s *CSVSink) Path(res *models.ScanResult) string {
	return filepath.Join(s.dir, util.OutputFileName(res.Symbol, string(res.OptionType), res.RunAt, "csv"))
}

func (s *CSVSink) Write(ctx context.Context, res *models.ScanResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("csv sink: create dir: %w", err)
	}

	path := s.Path(res)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv sink: %w", err)
	}
	rows := res.Spreads
	if rows == nil {
		rows = []models.SpreadRecord{}
	}
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(csv.NewWriter(f))); err != nil {
		_ = f.Close()
		return fmt.Errorf("csv sink: write %s: %w", path, err)
	}
	return f.Close()
}

func (s *CSVSink) Close() error { return nil }

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"FinSpread/internal/domain/models"
	"FinSpread/pkg/util"
)

// JSONSink writes each scan as an indented JSON array of spread records.
type JSONSink struct {
	dir string
}

func NewJSONSink(dir string) *JSONSink {
	if dir == "" {
		dir = "."
	}
	return &JSONSink{dir: dir}
}

func (s *JSONSink) Name() string { return "json" }

func (s *JSONSink) Path(res *models.ScanResult) string {
	return filepath.Join(s.dir, util.OutputFileName(res.Symbol, string(res.OptionType), res.RunAt, "json"))
}

func (s *JSONSink) Write(ctx context.Context, res *models.ScanResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("json sink: create dir: %w", err)
	}

	rows := res.Spreads
	if rows == nil {
		rows = []models.SpreadRecord{}
	}
	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("json sink: marshal: %w", err)
	}
	if err := os.WriteFile(s.Path(res), append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("json sink: %w", err)
	}
	return nil
}

func (s *JSONSink) Close() error { return nil }

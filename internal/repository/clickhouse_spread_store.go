package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"FinSpread/internal/domain/models"
	pkgch "FinSpread/pkg/clickhouse"
	applogger "FinSpread/pkg/logger"
)

// CHSpreadStore implements SpreadStore backed by ClickHouse.
type CHSpreadStore struct {
	ch    *pkgch.Client
	table string
	l     *applogger.Logger
}

func NewCHSpreadStore(ch *pkgch.Client, table string) *CHSpreadStore {
	if table == "" {
		table = "spreads"
	}
	return &CHSpreadStore{ch: ch, table: table}
}

// SetLogger injects a structured logger.
func (s *CHSpreadStore) SetLogger(l *applogger.Logger) { s.l = l }

// Schema returns the DDL for the spreads table.
func (s *CHSpreadStore) Schema() []string {
	return []string{fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            run_at          DateTime64(3, 'UTC'),
            symbol          LowCardinality(String),
            option_type     LowCardinality(String),
            seq             UInt32,
            dte             UInt16,
            profit_potential Float64,
            estimated_cost  Float64,
            long_desc       String,
            short_desc      String,
            spread_width    Float64,
            net_delta       Float64,
            net_theta       Float64,
            long_details    String,
            short_details   String
        ) ENGINE = MergeTree
        PARTITION BY toYYYYMM(run_at)
        ORDER BY (symbol, option_type, run_at, seq)
    `, s.table)}
}

// Init creates the table if needed.
func (s *CHSpreadStore) Init(ctx context.Context) error {
	return s.ch.InitSchema(ctx, s.Schema())
}

func (s *CHSpreadStore) insertQuery() string {
	return fmt.Sprintf(`INSERT INTO %s (run_at, symbol, option_type, seq, dte, profit_potential, estimated_cost,
        long_desc, short_desc, spread_width, net_delta, net_theta, long_details, short_details)`, s.table)
}

func (s *CHSpreadStore) latestQuery() string {
	return fmt.Sprintf(`
        SELECT dte, profit_potential, estimated_cost, long_desc, short_desc,
               spread_width, net_delta, net_theta, long_details, short_details
        FROM %[1]s
        WHERE symbol = ? AND option_type = ? AND seq > 0
          AND run_at = (SELECT max(run_at) FROM %[1]s WHERE symbol = ? AND option_type = ?)
        ORDER BY seq ASC
        LIMIT ?
    `, s.table)
}

// StoreBatch inserts a run marker and every spread of res in one batch. The marker
// makes a run that kept nothing the latest one, so Latest returns no rows for it.
func (s *CHSpreadStore) StoreBatch(ctx context.Context, res *models.ScanResult) error {
	rows := runRows(res)
	start := time.Now()
	err := s.ch.InTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, s.insertQuery())
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()
		for i, args := range rows {
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("append row %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse store_spreads error",
				applogger.String("table", s.table),
				applogger.String("symbol", res.Symbol),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("store spreads: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse store_spreads ok",
			applogger.String("table", s.table),
			applogger.String("symbol", res.Symbol),
			applogger.Int("spreads", len(res.Spreads)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

// runRows lays out one run: the marker at seq 0, then spreads from seq 1 in result order.
func runRows(res *models.ScanResult) [][]any {
	rows := make([][]any, 0, len(res.Spreads)+1)
	rows = append(rows, insertArgs(res, 0, models.SpreadRecord{}))
	for i, r := range res.Spreads {
		rows = append(rows, insertArgs(res, i+1, r))
	}
	return rows
}

func insertArgs(res *models.ScanResult, seq int, r models.SpreadRecord) []any {
	return []any{
		res.RunAt.UTC(),
		res.Symbol,
		string(res.OptionType),
		uint32(seq),
		uint16(r.SpreadDTE),
		r.ProfitPotentialPct,
		r.EstimatedCost,
		r.LongLegDescription,
		r.ShortLegDescription,
		r.SpreadWidth,
		r.NetDelta,
		r.NetTheta,
		r.LongLegDetails,
		r.ShortLegDetails,
	}
}

// Latest returns the spreads of the most recent run for symbol and type.
func (s *CHSpreadStore) Latest(ctx context.Context, symbol string, t models.OptionType, limit int) ([]models.SpreadRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.ch.DB().QueryContext(ctx, s.latestQuery(), symbol, string(t), symbol, string(t), limit)
	if err != nil {
		return nil, fmt.Errorf("latest spreads: %w", err)
	}
	defer rows.Close()

	out := make([]models.SpreadRecord, 0, limit)
	for rows.Next() {
		var (
			r   models.SpreadRecord
			dte uint16
		)
		if err := rows.Scan(&dte, &r.ProfitPotentialPct, &r.EstimatedCost, &r.LongLegDescription,
			&r.ShortLegDescription, &r.SpreadWidth, &r.NetDelta, &r.NetTheta,
			&r.LongLegDetails, &r.ShortLegDetails); err != nil {
			return nil, fmt.Errorf("scan spread: %w", err)
		}
		r.SpreadDTE = int(dte)
		if err := hydrateLegs(&r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// hydrateLegs restores the structured legs from their stored JSON details.
func hydrateLegs(r *models.SpreadRecord) error {
	if r.LongLegDetails != "" {
		if err := json.Unmarshal([]byte(r.LongLegDetails), &r.LongLeg); err != nil {
			return fmt.Errorf("decode long leg: %w", err)
		}
	}
	if r.ShortLegDetails != "" {
		if err := json.Unmarshal([]byte(r.ShortLegDetails), &r.ShortLeg); err != nil {
			return fmt.Errorf("decode short leg: %w", err)
		}
	}
	return nil
}

func (s *CHSpreadStore) Health(ctx context.Context) error {
	return s.ch.Health(ctx)
}

// Close is a no-op; the client is owned by the application.
func (s *CHSpreadStore) Close() error { return nil }

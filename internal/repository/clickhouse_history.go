package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"PillarSight/internal/domain/models"
	pkgch "PillarSight/pkg/clickhouse"
	applogger "PillarSight/pkg/logger"

	"github.com/google/uuid"
)

// historyTable is the append-only decision archive. Rows are inserted once
// with a generated id and never updated; supersession is derived at read
// time from entry ordering.
const historyTable = "pillarsight.decisions"

var historySchema = []string{
	"CREATE DATABASE IF NOT EXISTS pillarsight",
	`CREATE TABLE IF NOT EXISTS ` + historyTable + ` (
        id String,
        symbol String,
        ts DateTime64(3, 'UTC'),
        bias String,
        conviction Float64,
        calibration_version String,
        active_pillars UInt8,
        placeholder_pillars UInt8,
        failed_pillars UInt8,
        pillar_scores String,
        pillar_biases String,
        engine_version String,
        contract_version String
    ) ENGINE = MergeTree ORDER BY (symbol, ts)`,
}

// CHDecisionHistory implements DecisionHistory backed by ClickHouse.
type CHDecisionHistory struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHDecisionHistory(ch *pkgch.Client) *CHDecisionHistory {
	return &CHDecisionHistory{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHDecisionHistory) SetLogger(l *applogger.Logger) { s.l = l }

// Init ensures the database and archive table exist.
func (s *CHDecisionHistory) Init(ctx context.Context) error {
	for _, stmt := range historySchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("history schema: %w", err)
		}
	}
	return nil
}

// Save appends one decision. The insert is keyed by a freshly generated
// UUID, so concurrent writers for the same symbol cannot clobber each
// other; ordering is resolved by timestamp at read time.
func (s *CHDecisionHistory) Save(ctx context.Context, d *models.Decision) (string, error) {
	entry := models.NewHistoryEntry(d)
	entry.ID = uuid.NewString()

	scores, err := json.Marshal(entry.PillarScores)
	if err != nil {
		return "", fmt.Errorf("marshal pillar scores: %w", err)
	}
	biases, err := json.Marshal(entry.PillarBiases)
	if err != nil {
		return "", fmt.Errorf("marshal pillar biases: %w", err)
	}

	const q = `INSERT INTO ` + historyTable + `
        (id, symbol, ts, bias, conviction, calibration_version,
         active_pillars, placeholder_pillars, failed_pillars,
         pillar_scores, pillar_biases, engine_version, contract_version)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	_, err = s.db.ExecContext(ctx, q,
		entry.ID, entry.Symbol, entry.Timestamp, string(entry.Bias), entry.Conviction,
		entry.CalibrationVersion, entry.ActivePillars, entry.PlaceholderPillars,
		entry.FailedPillars, string(scores), string(biases),
		entry.EngineVersion, entry.ContractVersion,
	)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse save decision error",
				applogger.String("symbol", entry.Symbol),
				applogger.Error(err),
			)
		}
		return "", fmt.Errorf("save decision: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse decision saved",
			applogger.String("symbol", entry.Symbol),
			applogger.String("id", entry.ID),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return entry.ID, nil
}

// GetRecent returns the latest `limit` entries for a symbol, oldest first.
func (s *CHDecisionHistory) GetRecent(ctx context.Context, symbol string, limit int) ([]models.DecisionHistoryEntry, error) {
	const q = `SELECT id, symbol, ts, bias, conviction, calibration_version,
            active_pillars, placeholder_pillars, failed_pillars,
            pillar_scores, pillar_biases, engine_version, contract_version
        FROM ` + historyTable + `
        WHERE symbol = ?
        ORDER BY ts DESC
        LIMIT ?`

	entries, err := s.queryEntries(ctx, q, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent: %w", err)
	}
	reverseEntries(entries)
	markSuperseded(entries)
	return entries, nil
}

// GetByDateRange returns entries within [from, to], oldest first.
func (s *CHDecisionHistory) GetByDateRange(ctx context.Context, symbol string, from, to time.Time) ([]models.DecisionHistoryEntry, error) {
	const q = `SELECT id, symbol, ts, bias, conviction, calibration_version,
            active_pillars, placeholder_pillars, failed_pillars,
            pillar_scores, pillar_biases, engine_version, contract_version
        FROM ` + historyTable + `
        WHERE symbol = ? AND ts >= ? AND ts <= ?
        ORDER BY ts ASC`

	entries, err := s.queryEntries(ctx, q, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("get by date range: %w", err)
	}
	markSuperseded(entries)
	return entries, nil
}

// GetBiasDistribution counts decisions per bias for a symbol.
func (s *CHDecisionHistory) GetBiasDistribution(ctx context.Context, symbol string) (map[models.Bias]int64, error) {
	const q = `SELECT bias, count() FROM ` + historyTable + ` WHERE symbol = ? GROUP BY bias`
	rows, err := s.db.QueryContext(ctx, q, symbol)
	if err != nil {
		return nil, fmt.Errorf("bias distribution: %w", err)
	}
	defer rows.Close()

	out := make(map[models.Bias]int64)
	for rows.Next() {
		var bias string
		var n int64
		if err := rows.Scan(&bias, &n); err != nil {
			return nil, fmt.Errorf("scan bias row: %w", err)
		}
		out[models.Bias(bias)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bias rows: %w", err)
	}
	return out, nil
}

// GetLatestTwo returns the two most recent entries, previous then current.
// Either may be nil when fewer than two decisions exist.
func (s *CHDecisionHistory) GetLatestTwo(ctx context.Context, symbol string) (*models.DecisionHistoryEntry, *models.DecisionHistoryEntry, error) {
	entries, err := s.GetRecent(ctx, symbol, 2)
	if err != nil {
		return nil, nil, err
	}
	switch len(entries) {
	case 0:
		return nil, nil, nil
	case 1:
		return nil, &entries[0], nil
	default:
		return &entries[0], &entries[1], nil
	}
}

// Health pings the connection.
func (s *CHDecisionHistory) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close is a no-op: the shared client owns the pool.
func (s *CHDecisionHistory) Close() error { return nil }

func (s *CHDecisionHistory) queryEntries(ctx context.Context, q string, args ...any) ([]models.DecisionHistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse history query error", applogger.Error(err))
		}
		return nil, err
	}
	defer rows.Close()

	out := make([]models.DecisionHistoryEntry, 0, 64)
	for rows.Next() {
		var e models.DecisionHistoryEntry
		var bias, scores, biases string
		if err := rows.Scan(&e.ID, &e.Symbol, &e.Timestamp, &bias, &e.Conviction,
			&e.CalibrationVersion, &e.ActivePillars, &e.PlaceholderPillars,
			&e.FailedPillars, &scores, &biases, &e.EngineVersion, &e.ContractVersion); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Bias = models.Bias(bias)
		if err := json.Unmarshal([]byte(scores), &e.PillarScores); err != nil {
			return nil, fmt.Errorf("unmarshal pillar scores: %w", err)
		}
		if err := json.Unmarshal([]byte(biases), &e.PillarBiases); err != nil {
			return nil, fmt.Errorf("unmarshal pillar biases: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func reverseEntries(entries []models.DecisionHistoryEntry) {
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
}

// markSuperseded derives the superseded flag: within an oldest-first slice,
// every entry but the newest has been superseded by a later decision.
func markSuperseded(entries []models.DecisionHistoryEntry) {
	for i := range entries {
		entries[i].IsSuperseded = i < len(entries)-1
	}
}

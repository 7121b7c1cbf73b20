package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"TVPriceScanner/internal/domain"
	"TVPriceScanner/internal/ports"
)

const historyTable = "price_history"

// PostgresStore keeps the history in a single Postgres table, one row per
// identity. Swapping it in for the file store must not change detector
// behavior, so it honors the same load/save contract.
type PostgresStore struct {
	db      *sql.DB
	logger  *slog.Logger
	builder sq.StatementBuilderType
}

var _ ports.HistoryStore = (*PostgresStore)(nil)

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{
		db:      db,
		logger:  logger,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Migrate creates the history table if it does not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if s.db == nil {
		return nil
	}

	query := `CREATE TABLE IF NOT EXISTS price_history (
        identity      TEXT PRIMARY KEY,
        price         NUMERIC(12,2) NOT NULL,
        observed_date TEXT NOT NULL,
        url           TEXT NOT NULL DEFAULT ''
    )`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("migrate history table: %w", err)
	}
	return nil
}

// Load reads all rows. Any failure is treated as an empty history, same as
// a missing file: logged, never fatal.
func (s *PostgresStore) Load(ctx context.Context) domain.History {
	if s.db == nil {
		return domain.History{}
	}

	query, args, err := s.builder.
		Select("identity", "price", "observed_date", "url").
		From(historyTable).
		ToSql()
	if err != nil {
		s.warn("build history query", "error", err)
		return domain.History{}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.warn("history table unreadable, starting empty", "error", err)
		return domain.History{}
	}
	defer rows.Close()

	loaded := domain.History{}
	for rows.Next() {
		var (
			identity, priceText, date, url string
		)
		if err := rows.Scan(&identity, &priceText, &date, &url); err != nil {
			s.warn("scan history row", "error", err)
			return domain.History{}
		}

		price, err := decimal.NewFromString(priceText)
		if err != nil {
			s.warn("skipping history row with bad price", "identity", identity, "price", priceText)
			continue
		}
		loaded[identity] = domain.HistoryEntry{Price: price, Date: date, URL: url}
	}

	if err := rows.Err(); err != nil {
		s.warn("history rows iteration", "error", err)
		return domain.History{}
	}

	return loaded
}

// Save replaces the whole table inside one transaction.
func (s *PostgresStore) Save(ctx context.Context, h domain.History) error {
	if s.db == nil {
		return fmt.Errorf("postgres store has no database handle")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history save: %w", err)
	}
	defer tx.Rollback()

	deleteSQL, deleteArgs, err := s.builder.Delete(historyTable).ToSql()
	if err != nil {
		return fmt.Errorf("build history delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteSQL, deleteArgs...); err != nil {
		return fmt.Errorf("clear history table: %w", err)
	}

	if len(h) > 0 {
		insert := s.builder.Insert(historyTable).
			Columns("identity", "price", "observed_date", "url")
		for identity, entry := range h {
			insert = insert.Values(identity, entry.Price.String(), entry.Date, entry.URL)
		}

		insertSQL, insertArgs, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("build history insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertSQL, insertArgs...); err != nil {
			return fmt.Errorf("insert history rows: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history save: %w", err)
	}
	return nil
}

func (s *PostgresStore) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

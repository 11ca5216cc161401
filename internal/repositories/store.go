package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"crmdashboard/internal/models"
)

var ErrUnknownCollection = errors.New("unknown collection")

// Store is the capability the services need from the external store.
type Store interface {
	Query(ctx context.Context, collection string) ([]models.Row, error)
	DeleteAll(ctx context.Context, collection string) error
	Insert(ctx context.Context, collection string, row models.Row) error
	// WithinTx runs fn against a Store bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(Store) error) error
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SQLStore implements Store over database/sql. Statements use $n placeholders.
type SQLStore struct {
	db          *sql.DB
	q           queryer
	inTx        bool
	collections map[string]bool
}

func NewSQLStore(db *sql.DB, collections ...string) *SQLStore {
	allowed := make(map[string]bool, len(collections))
	for _, c := range collections {
		allowed[c] = true
	}
	return &SQLStore{db: db, q: db, collections: allowed}
}

func (s *SQLStore) table(collection string) (string, error) {
	if !s.collections[collection] {
		return "", fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}
	return pq.QuoteIdentifier(collection), nil
}

// Query returns every row of collection. Driver errors are returned as is so
// callers can surface their text.
func (s *SQLStore) Query(ctx context.Context, collection string) ([]models.Row, error) {
	table, err := s.table(collection)
	if err != nil {
		return nil, err
	}

	rows, err := s.q.QueryContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		log.Error().Err(err).Str("collection", collection).Msg("query failed")
		return nil, err
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	var out []models.Row
	for rows.Next() {
		values := make([]interface{}, len(types))
		ptrs := make([]interface{}, len(types))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			log.Error().Err(err).Str("collection", collection).Msg("scan failed")
			return nil, err
		}
		row := make(models.Row, len(types))
		for i, ct := range types {
			row[ct.Name()] = normalize(values[i], ct.DatabaseTypeName())
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLStore) DeleteAll(ctx context.Context, collection string) error {
	table, err := s.table(collection)
	if err != nil {
		return err
	}
	if _, err := s.q.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		log.Error().Err(err).Str("collection", collection).Msg("delete failed")
		return err
	}
	return nil
}

func (s *SQLStore) Insert(ctx context.Context, collection string, row models.Row) error {
	table, err := s.table(collection)
	if err != nil {
		return err
	}

	if len(row) == 0 {
		if _, err := s.q.ExecContext(ctx, "INSERT INTO "+table+" DEFAULT VALUES"); err != nil {
			return err
		}
		return nil
	}

	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cols := make([]string, len(keys))
	marks := make([]string, len(keys))
	args := make([]interface{}, len(keys))
	for i, k := range keys {
		cols[i] = pq.QuoteIdentifier(k)
		marks[i] = fmt.Sprintf("$%d", i+1)
		args[i] = row[k]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(marks, ", "))
	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		log.Error().Err(err).Str("collection", collection).Msg("insert failed")
		return err
	}
	return nil
}

func (s *SQLStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error().Err(rbErr).Msg("rollback failed")
		}
	}()

	if err := fn(&SQLStore{db: s.db, q: tx, inTx: true, collections: s.collections}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Ping checks that the store is reachable.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// normalize turns driver values into what the services expect: text for
// []byte and DATE columns, everything else untouched.
func normalize(v interface{}, dbType string) interface{} {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case time.Time:
		if dbType == "DATE" {
			return t.Format("2006-01-02")
		}
	}
	return v
}

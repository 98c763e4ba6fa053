package kvstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// PostgresStore guarda os documentos numa tabela chave/valor JSONB.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS kv_store (
			key   TEXT PRIMARY KEY,
			value JSONB NOT NULL
		)
	`
	_, err := s.DB.ExecContext(ctx, query)
	return errors.Wrap(err, "postgres ensure schema")
}

func (s *PostgresStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "postgres encode %s", key)
	}

	query := `
		INSERT INTO kv_store (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value
	`
	// string e não []byte: o lib/pq mandaria bytea
	_, err = s.DB.ExecContext(ctx, query, key, string(raw))
	return errors.Wrapf(err, "postgres set %s", key)
}

func (s *PostgresStore) Get(ctx context.Context, key string, dest any) error {
	var raw []byte
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return errors.Wrapf(err, "postgres get %s", key)
	}
	return errors.Wrapf(json.Unmarshal(raw, dest), "postgres decode %s", key)
}

func (s *PostgresStore) GetByPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT value FROM kv_store WHERE key LIKE $1 ESCAPE '\'`,
		likeEscaper.Replace(prefix)+"%",
	)
	if err != nil {
		return nil, errors.Wrap(err, "postgres prefix query")
	}
	defer rows.Close()

	values := make([][]byte, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, errors.Wrap(err, "postgres prefix scan")
		}
		values = append(values, raw)
	}
	return values, errors.Wrap(rows.Err(), "postgres prefix rows")
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM kv_store WHERE key = $1`, key)
	return errors.Wrapf(err, "postgres delete %s", key)
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// MySQLStorage uses the app_storage table created by the database migrations.
type MySQLStorage struct {
	db *sqlx.DB
}

func NewMySQLStorage(db *sqlx.DB) *MySQLStorage {
	return &MySQLStorage{db: db}
}

func (s *MySQLStorage) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := s.db.GetContext(ctx, &payload, `SELECT payload FROM app_storage WHERE namespace = ?`, key)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "mysql get %s", key)
	}
	return payload, nil
}

func (s *MySQLStorage) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO app_storage (namespace, payload, updated_at) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE payload = VALUES(payload), updated_at = VALUES(updated_at)`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return errors.Wrapf(err, "mysql set %s", key)
	}
	return nil
}

func (s *MySQLStorage) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM app_storage WHERE namespace = ?`, key); err != nil {
		return errors.Wrapf(err, "mysql delete %s", key)
	}
	return nil
}

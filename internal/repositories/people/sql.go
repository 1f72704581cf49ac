package people

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mentormatch/internal/dbx"
	"github.com/dmitrijs2005/mentormatch/internal/models"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// SQLRepository keeps people in a SQL database. Records are stored as JSON
// in the data column; role and key form the primary key.
type SQLRepository struct {
	db    *sql.DB
	style dbx.Placeholder
}

// NewSQLRepository wraps an opened and migrated database.
func NewSQLRepository(db *sql.DB, style dbx.Placeholder) *SQLRepository {
	return &SQLRepository{db: db, style: style}
}

// OpenSQLite opens the sqlite database at dsn and migrates it.
func OpenSQLite(ctx context.Context, dsn string) (*SQLRepository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and avoids
	// SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db, "sqlite3", "migrations/sqlite"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return NewSQLRepository(db, dbx.Question), nil
}

// OpenPostgres connects to dsn through pgx and migrates the database.
func OpenPostgres(ctx context.Context, dsn string) (*SQLRepository, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := runMigrations(ctx, db, "postgres", "migrations/postgres"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return NewSQLRepository(db, dbx.Dollar), nil
}

func (r *SQLRepository) q(query string) string { return dbx.Rebind(r.style, query) }

const upsertPerson = `
	INSERT INTO people (role, key, email, data) VALUES (?, ?, ?, ?)
	ON CONFLICT (role, key) DO UPDATE SET email = excluded.email, data = excluded.data, saved_at = CURRENT_TIMESTAMP`

func (r *SQLRepository) save(ctx context.Context, db dbx.DBTX, rec models.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s: %w", rec.Key(), err)
	}
	if _, err := db.ExecContext(ctx, r.q(upsertPerson), string(rec.Role), rec.Key(), rec.Email, string(data)); err != nil {
		return fmt.Errorf("failed to save %s %s: %w", rec.Role, rec.Key(), err)
	}
	return nil
}

func (r *SQLRepository) Save(ctx context.Context, rec models.Record) error {
	return r.save(ctx, r.db, rec)
}

func (r *SQLRepository) List(ctx context.Context, role models.Role) ([]models.Record, error) {
	rows, err := r.db.QueryContext(ctx, r.q(`SELECT key, data FROM people WHERE role = ? ORDER BY key`), string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", role, err)
	}
	defer rows.Close()

	var recs []models.Record
	for rows.Next() {
		var key, data string
		if err := rows.Scan(&key, &data); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", role, err)
		}
		var rec models.Record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("decode %s %s: %w", role, key, err)
		}
		rec.Role = role
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s rows: %w", role, err)
	}
	return recs, nil
}

func (r *SQLRepository) Exists(ctx context.Context, role models.Role) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, r.q(`SELECT COUNT(*) FROM people WHERE role = ?`), string(role)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to count %s: %w", role, err)
	}
	return n > 0, nil
}

func (r *SQLRepository) Clear(ctx context.Context, role models.Role) error {
	if _, err := r.db.ExecContext(ctx, r.q(`DELETE FROM people WHERE role = ?`), string(role)); err != nil {
		return fmt.Errorf("failed to clear %s: %w", role, err)
	}
	return nil
}

func (r *SQLRepository) Replace(ctx context.Context, role models.Role, recs []models.Record) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, r.q(`DELETE FROM people WHERE role = ?`), string(role)); err != nil {
			return fmt.Errorf("failed to clear %s: %w", role, err)
		}
		for _, rec := range recs {
			rec.Role = role
			if err := r.save(ctx, tx, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLRepository) GetMeta(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, r.q(`SELECT value FROM metadata WHERE key = ?`), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, true, nil
}

func (r *SQLRepository) SetMeta(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, r.q(`
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`), key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLRepository) Close() error { return r.db.Close() }

package form

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const createFormsTable = `
CREATE TABLE IF NOT EXISTS forms (
	id            TEXT PRIMARY KEY,
	template_id   TEXT NOT NULL DEFAULT '',
	worksite_id   TEXT NOT NULL DEFAULT '',
	worksite_name TEXT NOT NULL DEFAULT '',
	technician_id TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL,
	completed_at  TIMESTAMPTZ NULL
)`

var formIndexes = []string{
	`CREATE INDEX IF NOT EXISTS forms_created_at_idx ON forms (created_at)`,
	`CREATE INDEX IF NOT EXISTS forms_worksite_created_at_idx ON forms (worksite_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS forms_technician_created_at_idx ON forms (technician_id, created_at)`,
}

// PostgresFormRepository reads forms mirrored into a Postgres "forms" table.
type PostgresFormRepository struct {
	db *sql.DB
}

func NewPostgresFormRepository(ctx context.Context, dsn string) (*PostgresFormRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return &PostgresFormRepository{db: db}, nil
}

func (r *PostgresFormRepository) Close() error {
	return r.db.Close()
}

func (r *PostgresFormRepository) FindCreatedBetween(ctx context.Context, start, end time.Time) ([]Form, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, template_id, worksite_id, worksite_name, technician_id, status, created_at, completed_at
		FROM forms
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	forms := []Form{}
	for rows.Next() {
		var (
			f           Form
			id          string
			completedAt pq.NullTime
		)
		if err := rows.Scan(&id, &f.TemplateID, &f.WorksiteID, &f.WorksiteName, &f.TechnicianID, &f.Status, &f.CreatedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("failed to scan form row: %w", err)
		}
		// Rows written by other systems may carry non-ObjectID keys; those
		// keep a zero ID since analytics never reads it back.
		f.ID, _ = primitive.ObjectIDFromHex(id)
		if completedAt.Valid {
			t := completedAt.Time
			f.CompletedAt = &t
		}
		forms = append(forms, f)
	}
	return forms, rows.Err()
}

// Insert bulk-loads forms with COPY.
func (r *PostgresFormRepository) Insert(ctx context.Context, forms []Form) error {
	if len(forms) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("forms",
		"id", "template_id", "worksite_id", "worksite_name", "technician_id", "status", "created_at", "completed_at"))
	if err != nil {
		return fmt.Errorf("failed to prepare copy: %w", err)
	}

	for i := range forms {
		if forms[i].ID.IsZero() {
			forms[i].ID = primitive.NewObjectID()
		}
		f := forms[i]
		var completedAt interface{}
		if f.CompletedAt != nil {
			completedAt = *f.CompletedAt
		}
		if _, err := stmt.ExecContext(ctx, f.ID.Hex(), f.TemplateID, f.WorksiteID, f.WorksiteName, f.TechnicianID, f.Status, f.CreatedAt, completedAt); err != nil {
			stmt.Close()
			return fmt.Errorf("failed to copy form %s: %w", f.ID.Hex(), err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("failed to flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PostgresFormRepository) EnsureIndexes(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createFormsTable); err != nil {
		return fmt.Errorf("failed to create forms table: %w", err)
	}
	for _, stmt := range formIndexes {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

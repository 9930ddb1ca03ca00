package store

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	CreateUpload(ctx context.Context, u *Upload) error
	GetUpload(ctx context.Context, id string) (*Upload, error)
	ListUploads(ctx context.Context) ([]*Upload, error)
	ListUploadsOlderThan(ctx context.Context, cutoff time.Time) ([]*Upload, error)
	DeleteUpload(ctx context.Context, id string) error

	CreateExtraction(ctx context.Context, e *Extraction) error
	ListExtractions(ctx context.Context, limit int) ([]*Extraction, error)

	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateUpload(ctx context.Context, u *Upload) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO uploads (id, filename, path, size, sequence_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, u.ID, u.Filename, u.Path, u.Size, u.SequenceCount, u.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetUpload(ctx context.Context, id string) (*Upload, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, filename, path, size, sequence_count, created_at
		FROM uploads WHERE id = ?
	`, id)
	return scanUpload(row)
}

func (r *SQLiteRepository) ListUploads(ctx context.Context) ([]*Upload, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, filename, path, size, sequence_count, created_at
		FROM uploads ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUploads(rows)
}

func (r *SQLiteRepository) ListUploadsOlderThan(ctx context.Context, cutoff time.Time) ([]*Upload, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, filename, path, size, sequence_count, created_at
		FROM uploads WHERE created_at < ? ORDER BY created_at
	`, cutoff.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUploads(rows)
}

func (r *SQLiteRepository) DeleteUpload(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM uploads WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepository) CreateExtraction(ctx context.Context, e *Extraction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO extractions (id, upload_id, project_name, sequence_name, fps, clip_count, instance_count, warning_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.UploadID, e.ProjectName, e.SequenceName, e.FPS, e.ClipCount, e.InstanceCount, e.WarningCount, e.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) ListExtractions(ctx context.Context, limit int) ([]*Extraction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, upload_id, project_name, sequence_name, fps, clip_count, instance_count, warning_count, created_at
		FROM extractions ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Extraction
	for rows.Next() {
		var e Extraction
		var createdAt string
		if err := rows.Scan(&e.ID, &e.UploadID, &e.ProjectName, &e.SequenceName,
			&e.FPS, &e.ClipCount, &e.InstanceCount, &e.WarningCount, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (r *SQLiteRepository) SetConfig(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func scanUpload(row *sql.Row) (*Upload, error) {
	var u Upload
	var createdAt string
	err := row.Scan(&u.ID, &u.Filename, &u.Path, &u.Size, &u.SequenceCount, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &u, nil
}

func collectUploads(rows *sql.Rows) ([]*Upload, error) {
	var out []*Upload
	for rows.Next() {
		var u Upload
		var createdAt string
		if err := rows.Scan(&u.ID, &u.Filename, &u.Path, &u.Size, &u.SequenceCount, &createdAt); err != nil {
			return nil, err
		}
		u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, &u)
	}
	return out, rows.Err()
}

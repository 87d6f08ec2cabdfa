package repository

// TemplateRepo stores curated wardrobe templates in MySQL so the catalog can
// grow without a redeploy.  Payloads are kept as JSON text and decoded by the
// same contract as any other document.

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iliyamo/wardrobe-designer/internal/template"
)

// TemplateRepo encapsulates all queries against the wardrobe_templates table.
type TemplateRepo struct {
	db *sql.DB // db is the underlying connection pool
}

// NewTemplateRepo constructs a TemplateRepo with the provided DB handle.
func NewTemplateRepo(db *sql.DB) *TemplateRepo {
	return &TemplateRepo{db: db}
}

const createTemplatesTable = `CREATE TABLE IF NOT EXISTS wardrobe_templates (
    id          VARCHAR(64)  NOT NULL PRIMARY KEY,
    name        VARCHAR(255) NOT NULL,
    description TEXT         NOT NULL,
    image_url   VARCHAR(512) NOT NULL DEFAULT '',
    payload     JSON         NOT NULL,
    position    INT          NOT NULL DEFAULT 0,
    created_at  TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// EnsureSchema creates the templates table when it does not exist yet.
func (r *TemplateRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTemplatesTable); err != nil {
		return fmt.Errorf("create wardrobe_templates: %w", err)
	}
	return nil
}

// List returns all templates ordered by position then id.
func (r *TemplateRepo) List(ctx context.Context) ([]template.Template, error) {
	const q = `SELECT id, name, description, image_url, payload
	           FROM wardrobe_templates ORDER BY position, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []template.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one template by id.  It returns ErrTemplateNotFound when no
// row matches.
func (r *TemplateRepo) Get(ctx context.Context, id string) (template.Template, error) {
	const q = `SELECT id, name, description, image_url, payload
	           FROM wardrobe_templates WHERE id = ?`
	t, err := scanTemplate(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return template.Template{}, ErrTemplateNotFound
		}
		return template.Template{}, err
	}
	return t, nil
}

// Upsert inserts or replaces a template.  The payload must be valid JSON.
func (r *TemplateRepo) Upsert(ctx context.Context, t template.Template, position int) error {
	if !json.Valid(t.Payload) {
		return fmt.Errorf("template %s: %w", t.ID, ErrInvalidPayload)
	}
	const q = `INSERT INTO wardrobe_templates (id, name, description, image_url, payload, position)
	           VALUES (?, ?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE name = VALUES(name), description = VALUES(description),
	           image_url = VALUES(image_url), payload = VALUES(payload), position = VALUES(position)`
	_, err := r.db.ExecContext(ctx, q, t.ID, t.Name, t.Description, t.ImageURL, string(t.Payload), position)
	return err
}

// Seed upserts every template of items keeping their list order.
func (r *TemplateRepo) Seed(ctx context.Context, items []template.Template) error {
	for i, t := range items {
		if err := r.Upsert(ctx, t, i); err != nil {
			return err
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTemplate(s scanner) (template.Template, error) {
	var (
		t       template.Template
		payload string
	)
	if err := s.Scan(&t.ID, &t.Name, &t.Description, &t.ImageURL, &payload); err != nil {
		return template.Template{}, err
	}
	t.Payload = json.RawMessage(payload)
	return t, nil
}

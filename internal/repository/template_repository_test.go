package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/wardrobe-designer/internal/template"
)

var templateColumns = []string{"id", "name", "description", "image_url", "payload"}

func newMockRepo(t *testing.T) (*TemplateRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewTemplateRepo(db), mock
}

func TestEnsureSchema(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS wardrobe_templates`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
}

func TestListTemplates(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`FROM wardrobe_templates ORDER BY position, id`).
		WillReturnRows(sqlmock.NewRows(templateColumns).
			AddRow("t1", "First", "one", "/a.jpg", `{"type":"corner"}`).
			AddRow("t2", "Second", "two", "", `{"type":"walk-in"}`))

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "t1", items[0].ID)
	assert.Equal(t, "/a.jpg", items[0].ImageURL)
	assert.JSONEq(t, `{"type":"walk-in"}`, string(items[1].Payload))
}

func TestGetTemplate(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`FROM wardrobe_templates WHERE id = \?`).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows(templateColumns).
			AddRow("t1", "First", "one", "", `{"type":"sliding"}`))

	got, err := repo.Get(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "First", got.Name)
	assert.Equal(t, json.RawMessage(`{"type":"sliding"}`), got.Payload)
}

func TestGetMissingTemplate(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`FROM wardrobe_templates WHERE id = \?`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(templateColumns))

	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
	assert.ErrorIs(t, err, template.ErrNotFound)
}

func TestChainFallsThroughMissingRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`FROM wardrobe_templates WHERE id = \?`).
		WithArgs("builtin").
		WillReturnRows(sqlmock.NewRows(templateColumns))

	builtin := template.NewCatalog([]template.Template{{ID: "builtin", Name: "Embedded"}})
	got, err := template.Chain{repo, builtin}.Get(context.Background(), "builtin")
	require.NoError(t, err)
	assert.Equal(t, "Embedded", got.Name)
}

func TestUpsertAndSeed(t *testing.T) {
	repo, mock := newMockRepo(t)
	items := []template.Template{
		{ID: "a", Name: "A", Description: "first", Payload: json.RawMessage(`{"type":"corner"}`)},
		{ID: "b", Name: "B", Description: "second", ImageURL: "/b.jpg", Payload: json.RawMessage(`{}`)},
	}
	mock.ExpectExec(`INSERT INTO wardrobe_templates`).
		WithArgs("a", "A", "first", "", `{"type":"corner"}`, 0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO wardrobe_templates`).
		WithArgs("b", "B", "second", "/b.jpg", `{}`, 1).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Seed(context.Background(), items))
}

func TestUpsertRejectsInvalidPayload(t *testing.T) {
	repo, _ := newMockRepo(t)
	err := repo.Upsert(context.Background(), template.Template{ID: "x", Payload: json.RawMessage(`{broken`)}, 0)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

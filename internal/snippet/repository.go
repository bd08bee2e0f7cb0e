package snippet

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"codepad/internal/common/db"
	appErr "codepad/pkg/errors"
)

// MySQLRepository stores snippets in MySQL.
//
// Schema:
//
//	CREATE TABLE snippets (
//	    id         CHAR(16) PRIMARY KEY,
//	    language   VARCHAR(32)  NOT NULL,
//	    code       MEDIUMTEXT   NOT NULL,
//	    created_at DATETIME(3)  NOT NULL
//	);
type MySQLRepository struct {
	db *sql.DB
}

// NewMySQLRepository creates a repository over the shared pool.
func NewMySQLRepository(pool *db.MySQL) *MySQLRepository {
	return &MySQLRepository{db: pool.DB()}
}

func (r *MySQLRepository) Create(ctx context.Context, s *Snippet) error {
	const query = `INSERT INTO snippets (id, language, code, created_at) VALUES (?, ?, ?, ?)`
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if _, err := r.db.ExecContext(ctx, query, s.ID, s.Language, s.Code, s.CreatedAt); err != nil {
		return appErr.Wrapf(err, appErr.DatabaseError, "insert snippet failed")
	}
	return nil
}

func (r *MySQLRepository) Get(ctx context.Context, id string) (*Snippet, error) {
	const query = `SELECT id, language, code, created_at FROM snippets WHERE id = ?`
	var s Snippet
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Language, &s.Code, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, appErr.New(appErr.SnippetNotFound)
	}
	if err != nil {
		return nil, appErr.Wrapf(err, appErr.DatabaseError, "query snippet failed")
	}
	return &s, nil
}

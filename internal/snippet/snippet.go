// Package snippet implements saving and sharing of code snippets.
package snippet

import (
	"context"
	"time"
)

// Snippet is one saved piece of code, addressable by its public id.
type Snippet struct {
	ID        string    `json:"id"`
	Language  string    `json:"language"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository persists snippets.
type Repository interface {
	Create(ctx context.Context, s *Snippet) error
	Get(ctx context.Context, id string) (*Snippet, error)
}

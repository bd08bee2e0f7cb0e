package snippet

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"regexp"

	"codepad/internal/runner/recipe"
	appErr "codepad/pkg/errors"
)

const idBytes = 8

var idPattern = regexp.MustCompile(`^[0-9a-f]{16}$`)

// Service validates and stores snippets. A nil Service (storage not
// configured) is handled at the controller layer.
type Service struct {
	repo         Repository
	registry     *recipe.Registry
	maxCodeBytes int
}

// NewService creates a snippet service.
func NewService(repo Repository, registry *recipe.Registry, maxCodeBytes int) *Service {
	if maxCodeBytes <= 0 {
		maxCodeBytes = 64 * 1024
	}
	return &Service{repo: repo, registry: registry, maxCodeBytes: maxCodeBytes}
}

// Save validates and persists a snippet, returning its public id.
func (s *Service) Save(ctx context.Context, language, code string) (string, error) {
	if _, ok := s.registry.Resolve(language); !ok {
		return "", appErr.New(appErr.LanguageNotSupported).WithDetail("language", language)
	}
	if code == "" {
		return "", appErr.ValidationError("code", "required")
	}
	if len(code) > s.maxCodeBytes {
		return "", appErr.New(appErr.CodeTooLarge)
	}

	id, err := newSnippetID()
	if err != nil {
		return "", appErr.Wrap(err, appErr.SnippetCreateFailed)
	}
	snippet := &Snippet{ID: id, Language: language, Code: code}
	if err := s.repo.Create(ctx, snippet); err != nil {
		return "", err
	}
	return id, nil
}

// Get loads a snippet by id.
func (s *Service) Get(ctx context.Context, id string) (*Snippet, error) {
	if !idPattern.MatchString(id) {
		return nil, appErr.New(appErr.SnippetNotFound)
	}
	return s.repo.Get(ctx, id)
}

func newSnippetID() (string, error) {
	buf := make([]byte, idBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

package controller_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"codepad/internal/runner/recipe"
	"codepad/internal/server/controller"
	"codepad/internal/snippet"
	appErr "codepad/pkg/errors"
)

type memoryRepository struct {
	mu       sync.Mutex
	snippets map[string]*snippet.Snippet
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{snippets: make(map[string]*snippet.Snippet)}
}

func (m *memoryRepository) Create(ctx context.Context, s *snippet.Snippet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *s
	m.snippets[s.ID] = &stored
	return nil
}

func (m *memoryRepository) Get(ctx context.Context, id string) (*snippet.Snippet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.snippets[id]
	if !ok {
		return nil, appErr.New(appErr.SnippetNotFound)
	}
	found := *s
	return &found, nil
}

func newSnippetRouter(t *testing.T, service *snippet.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctl := controller.NewSnippetController(service)
	router := gin.New()
	router.POST("/snippets", ctl.Save)
	router.GET("/snippets/:id", ctl.Get)
	return router
}

func TestSnippetSaveAndGet(t *testing.T) {
	service := snippet.NewService(newMemoryRepository(), recipe.NewRegistry(), 0)
	router := newSnippetRouter(t, service)

	rec, resp, err := postJSON(router, "/snippets", map[string]string{"language": "python", "code": "print(1)"})
	if err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var saved controller.SaveResponse
	if err := json.Unmarshal(resp.Data, &saved); err != nil {
		t.Fatalf("decode save response failed: %v", err)
	}
	if len(saved.ID) != 16 {
		t.Fatalf("unexpected snippet id: %q", saved.ID)
	}

	rec, resp, err = getJSON(router, "/snippets/"+saved.ID)
	if err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var got snippet.Snippet
	if err := json.Unmarshal(resp.Data, &got); err != nil {
		t.Fatalf("decode snippet failed: %v", err)
	}
	if got.Language != "python" || got.Code != "print(1)" {
		t.Fatalf("unexpected snippet: %+v", got)
	}
}

func TestSnippetGetNotFound(t *testing.T) {
	service := snippet.NewService(newMemoryRepository(), recipe.NewRegistry(), 0)
	router := newSnippetRouter(t, service)

	rec, resp, err := getJSON(router, "/snippets/00000000000000ff")
	if err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if resp.Code != int(appErr.SnippetNotFound) {
		t.Fatalf("unexpected code: %d", resp.Code)
	}
}

func TestSnippetSaveUnknownLanguage(t *testing.T) {
	service := snippet.NewService(newMemoryRepository(), recipe.NewRegistry(), 0)
	router := newSnippetRouter(t, service)

	rec, resp, err := postJSON(router, "/snippets", map[string]string{"language": "cobol", "code": "x"})
	if err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if resp.Code != int(appErr.LanguageNotSupported) {
		t.Fatalf("unexpected code: %d", resp.Code)
	}
}

func TestSnippetStorageDisabled(t *testing.T) {
	router := newSnippetRouter(t, nil)

	rec, resp, err := postJSON(router, "/snippets", map[string]string{"language": "python", "code": "x"})
	if err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if resp.Code != int(appErr.SnippetDisabled) {
		t.Fatalf("unexpected code: %d", resp.Code)
	}

	rec, resp, err = getJSON(router, "/snippets/00000000000000ff")
	if err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if resp.Code != int(appErr.SnippetDisabled) {
		t.Fatalf("unexpected code: %d", resp.Code)
	}
}

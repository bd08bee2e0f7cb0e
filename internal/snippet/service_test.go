package snippet_test

import (
	"context"
	"strings"
	"testing"

	"codepad/internal/runner/recipe"
	"codepad/internal/snippet"
	appErr "codepad/pkg/errors"
)

func newTestService() (*snippet.Service, *countingRepository) {
	repo := newCountingRepository()
	return snippet.NewService(repo, recipe.NewRegistry(), 64), repo
}

func TestServiceSaveRoundTrip(t *testing.T) {
	service, _ := newTestService()

	id, err := service.Save(context.Background(), "python", "print(1)")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if len(id) != 16 {
		t.Fatalf("unexpected id: %q", id)
	}

	got, err := service.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Language != "python" || got.Code != "print(1)" {
		t.Fatalf("unexpected snippet: %+v", got)
	}
}

func TestServiceSaveGeneratesUniqueIDs(t *testing.T) {
	service, _ := newTestService()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, err := service.Save(context.Background(), "go", "package main")
		if err != nil {
			t.Fatalf("save %d failed: %v", i+1, err)
		}
		if seen[id] {
			t.Fatalf("duplicate id: %s", id)
		}
		seen[id] = true
	}
}

func TestServiceSaveValidation(t *testing.T) {
	service, _ := newTestService()

	cases := []struct {
		name     string
		language string
		code     string
		want     appErr.ErrorCode
	}{
		{"unknown language", "cobol", "x", appErr.LanguageNotSupported},
		{"empty code", "python", "", appErr.ValidationFailed},
		{"oversized code", "python", strings.Repeat("x", 128), appErr.CodeTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Save(context.Background(), tc.language, tc.code)
			if err == nil {
				t.Fatalf("expected error")
			}
			if appErr.GetCode(err) != tc.want {
				t.Fatalf("unexpected error code: %v", err)
			}
		})
	}
}

func TestServiceGetRejectsMalformedID(t *testing.T) {
	service, repo := newTestService()

	for _, id := range []string{"", "short", "../../etc/passwd", "ZZ112233aabbccdd", "00112233aabbccddee"} {
		if _, err := service.Get(context.Background(), id); err == nil {
			t.Fatalf("id %q should be rejected", id)
		} else if appErr.GetCode(err) != appErr.SnippetNotFound {
			t.Fatalf("unexpected error code for %q: %v", id, err)
		}
	}
	if count := repo.getCount(); count != 0 {
		t.Fatalf("malformed ids must not reach storage, got %d lookups", count)
	}
}

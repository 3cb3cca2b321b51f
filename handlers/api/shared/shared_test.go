package shared

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gjinn/core"
	"gjinn/stores/memory"

	"github.com/go-chi/chi/v5"
)

func TestGetShared(t *testing.T) {
	store := memory.NewStore()
	id, err := store.PublishShared(context.Background(), &core.SharedCreation{
		Prompt: "a quiet lake",
		Kind:   core.WishKindImage,
		Result: &core.Result{URL: "https://x/img.png"},
	})
	if err != nil {
		t.Fatalf("PublishShared: %v", err)
	}

	r := chi.NewRouter()
	r.Get("/api/shared/{id}", HandleGetShared(store))

	// No auth: the route is public.
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/shared/"+id, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var item core.SharedCreation
	if err := json.Unmarshal(rec.Body.Bytes(), &item); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if item.ID != id || item.Prompt != "a quiet lake" {
		t.Errorf("unexpected item: %+v", item)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/shared/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", rec.Code)
	}
}

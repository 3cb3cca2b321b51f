package wishes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gjinn/core"
	"gjinn/generation"
	"gjinn/handlers/auth"
	"gjinn/middleware"
	"gjinn/stores/memory"
	"gjinn/wish"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

var testNow = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }

func newTestRouter(t *testing.T, opts wish.Options) (*chi.Mux, *wish.Registry, core.ShareStore) {
	t.Helper()
	store := memory.NewStore()
	if opts.Clock == nil {
		opts.Clock = testNow
	}
	registry := wish.NewRegistry(store, &generation.Static{}, nil, opts)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Route("/wishes", func(r chi.Router) {
			r.Post("/", HandleCreateWish(registry))
			r.Get("/", HandleListWishes(registry))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", HandleGetWish(registry))
				r.Post("/favorite", HandleToggleFavorite(registry))
				r.Post("/download", HandleRecordDownload(registry))
				r.Post("/share", HandleShareWish(registry, store))
			})
		})
		r.Get("/stats", HandleStats(registry))
		r.Get("/gallery", HandleGallery(registry))
		r.Get("/daily", HandleDailyPrompt(registry, testNow))
		r.Post("/daily/complete", HandleCompleteDaily(registry, testNow))
	})
	return r, registry, store
}

func authedRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	claims := &auth.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
		Login:            "tester",
	}
	return req.WithContext(context.WithValue(req.Context(), middleware.ClaimsContextKey, claims))
}

// completedWish drives one wish to completion outside the HTTP layer.
func completedWish(t *testing.T, registry *wish.Registry) *core.Wish {
	t.Helper()
	mgr := registry.ForUser(context.Background(), "user-1")
	w, err := mgr.CreateWish(context.Background(), "a quiet lake", core.WishKindImage)
	if err != nil {
		t.Fatalf("CreateWish: %v", err)
	}
	mgr.Fulfill(context.Background(), w.ID)
	done, _ := mgr.Get(w.ID)
	if done.Status != core.StatusCompleted {
		t.Fatalf("setup wish not completed: %q", done.Status)
	}
	return done
}

func TestCreateWish(t *testing.T) {
	router, _, _ := newTestRouter(t, wish.Options{})

	body := bytes.NewBufferString(`{"prompt":"A mystical forest","type":"image"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/wishes", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created core.Wish
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Prompt != "A mystical forest" {
		t.Errorf("unexpected prompt %q", created.Prompt)
	}
	if created.Status != core.StatusQueued {
		t.Errorf("new wish should come back queued, got %q", created.Status)
	}
	if created.ID == 0 {
		t.Error("wish id not assigned")
	}
}

func TestCreateWishValidation(t *testing.T) {
	router, _, _ := newTestRouter(t, wish.Options{})

	for _, body := range []string{`{"prompt":"   "}`, `{"prompt":"x","type":"video"}`} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/wishes", bytes.NewBufferString(body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestCreateWishWithoutClaims(t *testing.T) {
	router, _, _ := newTestRouter(t, wish.Options{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/wishes", bytes.NewBufferString(`{"prompt":"x"}`))
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without claims, got %d", rec.Code)
	}
}

func TestCreateWishRateLimited(t *testing.T) {
	router, _, _ := newTestRouter(t, wish.Options{MaxRequestsPerHour: 1})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/wishes", bytes.NewBufferString(`{"prompt":"one"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first create: expected 201, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/wishes", bytes.NewBufferString(`{"prompt":"two"}`)))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}
}

func TestListWishesStatusFilter(t *testing.T) {
	router, registry, _ := newTestRouter(t, wish.Options{})
	done := completedWish(t, registry)

	mgr := registry.ForUser(context.Background(), "user-1")
	if _, err := mgr.CreateWish(context.Background(), "still queued", core.WishKindImage); err != nil {
		t.Fatalf("CreateWish: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/wishes?status=completed", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var completed []*core.Wish
	if err := json.Unmarshal(rec.Body.Bytes(), &completed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != done.ID {
		t.Errorf("status filter returned %d wishes", len(completed))
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/wishes", nil))
	var all []*core.Wish
	json.Unmarshal(rec.Body.Bytes(), &all)
	if len(all) != 2 {
		t.Errorf("unfiltered list returned %d wishes", len(all))
	}
}

func TestGetWish(t *testing.T) {
	router, registry, _ := newTestRouter(t, wish.Options{})
	done := completedWish(t, registry)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, fmt.Sprintf("/api/wishes/%d", done.ID), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/wishes/999999", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/wishes/not-a-number", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed id, got %d", rec.Code)
	}
}

func TestToggleFavoriteAndDownload(t *testing.T) {
	router, registry, _ := newTestRouter(t, wish.Options{})
	done := completedWish(t, registry)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, fmt.Sprintf("/api/wishes/%d/favorite", done.ID), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("favorite: expected 200, got %d", rec.Code)
	}
	var updated core.Wish
	json.Unmarshal(rec.Body.Bytes(), &updated)
	if !updated.Favorite {
		t.Error("favorite flag not set")
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, fmt.Sprintf("/api/wishes/%d/download", done.ID), nil))
	json.Unmarshal(rec.Body.Bytes(), &updated)
	if updated.Downloads != 1 {
		t.Errorf("expected 1 download, got %d", updated.Downloads)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/wishes/999999/favorite", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", rec.Code)
	}
}

func TestStatsAndGallery(t *testing.T) {
	router, registry, _ := newTestRouter(t, wish.Options{})
	completedWish(t, registry)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/stats", nil))
	var stats wish.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Total != 1 || stats.Completed != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/gallery", nil))
	var gallery []*core.Wish
	json.Unmarshal(rec.Body.Bytes(), &gallery)
	if len(gallery) != 1 {
		t.Errorf("gallery should hold 1 item, got %d", len(gallery))
	}
}

func TestDailyPromptAndCompletion(t *testing.T) {
	router, registry, _ := newTestRouter(t, wish.Options{})
	done := completedWish(t, registry)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/daily", nil))
	var status wish.DailyStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode daily: %v", err)
	}
	if status.CompletedToday {
		t.Error("nothing marked yet")
	}
	if status.Prompt.Text == "" {
		t.Error("daily prompt text empty")
	}

	// A wish that is not completed cannot close the daily prompt.
	mgr := registry.ForUser(context.Background(), "user-1")
	queued, _ := mgr.CreateWish(context.Background(), "pending", core.WishKindImage)
	rec = httptest.NewRecorder()
	body := bytes.NewBufferString(fmt.Sprintf(`{"wishId":%d}`, queued.ID))
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/daily/complete", body))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for pending wish, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	body = bytes.NewBufferString(fmt.Sprintf(`{"wishId":%d}`, done.ID))
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/daily/complete", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/daily", nil))
	json.Unmarshal(rec.Body.Bytes(), &status)
	if !status.CompletedToday || status.Streak != 1 {
		t.Errorf("completion not reflected: %+v", status)
	}
}

func TestShareWish(t *testing.T) {
	router, registry, shares := newTestRouter(t, wish.Options{})
	done := completedWish(t, registry)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, fmt.Sprintf("/api/wishes/%d/share", done.ID), nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["id"] == "" {
		t.Fatal("share id missing")
	}

	item, err := shares.FindShared(context.Background(), resp["id"])
	if err != nil {
		t.Fatalf("published item not findable: %v", err)
	}
	if item.Prompt != done.Prompt || item.SharedBy != "tester" {
		t.Errorf("unexpected shared item: %+v", item)
	}

	// Pending wishes cannot be shared.
	mgr := registry.ForUser(context.Background(), "user-1")
	queued, _ := mgr.CreateWish(context.Background(), "pending", core.WishKindImage)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, fmt.Sprintf("/api/wishes/%d/share", queued.ID), nil))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for pending wish, got %d", rec.Code)
	}
}

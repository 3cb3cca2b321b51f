package memory

import (
	"context"
	"testing"
	"time"

	"gjinn/core"
)

func TestWishRoundTrip(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if wishes, err := store.LoadWishes(ctx, "alice"); err != nil || len(wishes) != 0 {
		t.Fatalf("fresh store should be empty, got %d wishes, err %v", len(wishes), err)
	}

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	in := []*core.Wish{{
		ID:        1,
		Prompt:    "a quiet lake",
		Kind:      core.WishKindImage,
		Status:    core.StatusCompleted,
		Progress:  100,
		CreatedAt: now,
		Result:    &core.Result{URL: "https://x/img.png", Seed: 42},
	}}
	if err := store.SaveWishes(ctx, "alice", in); err != nil {
		t.Fatalf("SaveWishes: %v", err)
	}

	out, err := store.LoadWishes(ctx, "alice")
	if err != nil {
		t.Fatalf("LoadWishes: %v", err)
	}
	if len(out) != 1 || out[0].Prompt != "a quiet lake" || out[0].Result.Seed != 42 {
		t.Errorf("round trip lost data: %+v", out)
	}

	// The store must not alias the caller's slice.
	in[0].Prompt = "mutated"
	out, _ = store.LoadWishes(ctx, "alice")
	if out[0].Prompt != "a quiet lake" {
		t.Error("store shares state with caller")
	}

	// Users are isolated.
	if wishes, _ := store.LoadWishes(ctx, "bob"); len(wishes) != 0 {
		t.Error("bob sees alice's wishes")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if settings, err := store.LoadSettings(ctx, "alice"); err != nil || settings != nil {
		t.Fatalf("fresh store should have nil settings, got %+v, err %v", settings, err)
	}

	in := &core.Settings{
		MaxRequestsPerHour: 5,
		DailyCompletions:   []core.DailyCompletion{{Date: "2025-06-15", WishID: 1}},
	}
	if err := store.SaveSettings(ctx, "alice", in); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	out, err := store.LoadSettings(ctx, "alice")
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if out.MaxRequestsPerHour != 5 || len(out.DailyCompletions) != 1 {
		t.Errorf("round trip lost data: %+v", out)
	}
}

func TestSharedPublishAndFind(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	id, err := store.PublishShared(ctx, &core.SharedCreation{
		Prompt: "a quiet lake",
		Kind:   core.WishKindImage,
		Result: &core.Result{URL: "https://x/img.png"},
	})
	if err != nil {
		t.Fatalf("PublishShared: %v", err)
	}
	if id == "" {
		t.Fatal("empty share id")
	}

	item, err := store.FindShared(ctx, id)
	if err != nil {
		t.Fatalf("FindShared: %v", err)
	}
	if item.ID != id || item.Prompt != "a quiet lake" {
		t.Errorf("unexpected item: %+v", item)
	}
	if item.SharedAt.IsZero() {
		t.Error("SharedAt not set")
	}

	if _, err := store.FindShared(ctx, "nope"); err == nil {
		t.Error("unknown share id should error")
	}
}

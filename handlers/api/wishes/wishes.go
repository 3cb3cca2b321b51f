package wishes

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"gjinn/core"
	"gjinn/handlers/auth"
	"gjinn/middleware"
	"gjinn/wish"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

type createWishRequest struct {
	Prompt string `json:"prompt"`
	Type   string `json:"type"`
}

type completeDailyRequest struct {
	WishID int64 `json:"wishId"`
}

func claimsFrom(w http.ResponseWriter, r *http.Request) (*auth.SessionClaims, bool) {
	claims, ok := r.Context().Value(middleware.ClaimsContextKey).(*auth.SessionClaims)
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, map[string]string{"error": "User claims not found"})
		return nil, false
	}
	return claims, true
}

func wishIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "Invalid wish id"})
		return 0, false
	}
	return id, true
}

func HandleCreateWish(registry *wish.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(w, r)
		if !ok {
			return
		}

		var req createWishRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}

		mgr := registry.ForUser(r.Context(), claims.Subject)
		created, err := mgr.CreateWish(r.Context(), req.Prompt, core.WishKind(req.Type))
		if err != nil {
			var rateErr *core.RateLimitError
			switch {
			case errors.As(err, &rateErr):
				w.Header().Set("Retry-After", strconv.Itoa(int(rateErr.RetryAfter.Seconds())+1))
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, map[string]string{"error": rateErr.Error()})
			case errors.Is(err, core.ErrEmptyPrompt), errors.Is(err, core.ErrInvalidKind):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, map[string]string{"error": err.Error()})
			default:
				logrus.WithFields(logrus.Fields{
					"error":  err,
					"userID": claims.Subject,
				}).Error("Failed to create wish")
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, map[string]string{"error": "Failed to create wish"})
			}
			return
		}

		// Fulfillment runs past the request lifetime; the manager owns its
		// own timeout.
		go mgr.Fulfill(context.Background(), created.ID)

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, created)
	}
}

func HandleListWishes(registry *wish.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(w, r)
		if !ok {
			return
		}

		mgr := registry.ForUser(r.Context(), claims.Subject)

		var wishes []*core.Wish
		switch status := core.WishStatus(r.URL.Query().Get("status")); status {
		case "":
			wishes = mgr.Wishes()
		case core.StatusQueued, core.StatusProcessing:
			wishes = mgr.Active()
		case core.StatusCompleted:
			wishes = mgr.Completed(0)
		default:
			filtered := []*core.Wish{}
			for _, item := range mgr.Wishes() {
				if item.Status == status {
					filtered = append(filtered, item)
				}
			}
			wishes = filtered
		}

		if wishes == nil {
			wishes = []*core.Wish{}
		}
		render.JSON(w, r, wishes)
	}
}

func HandleGetWish(registry *wish.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(w, r)
		if !ok {
			return
		}
		id, ok := wishIDParam(w, r)
		if !ok {
			return
		}

		mgr := registry.ForUser(r.Context(), claims.Subject)
		found, ok := mgr.Get(id)
		if !ok {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "Wish not found"})
			return
		}
		render.JSON(w, r, found)
	}
}

func HandleToggleFavorite(registry *wish.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(w, r)
		if !ok {
			return
		}
		id, ok := wishIDParam(w, r)
		if !ok {
			return
		}

		mgr := registry.ForUser(r.Context(), claims.Subject)
		updated := mgr.ToggleFavorite(r.Context(), id)
		if updated == nil {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "Wish not found"})
			return
		}
		render.JSON(w, r, updated)
	}
}

func HandleRecordDownload(registry *wish.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(w, r)
		if !ok {
			return
		}
		id, ok := wishIDParam(w, r)
		if !ok {
			return
		}

		mgr := registry.ForUser(r.Context(), claims.Subject)
		updated := mgr.RecordDownload(r.Context(), id)
		if updated == nil {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "Wish not found"})
			return
		}
		render.JSON(w, r, updated)
	}
}

func HandleStats(registry *wish.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(w, r)
		if !ok {
			return
		}

		mgr := registry.ForUser(r.Context(), claims.Subject)
		render.JSON(w, r, mgr.Stats())
	}
}

func HandleGallery(registry *wish.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(w, r)
		if !ok {
			return
		}

		mgr := registry.ForUser(r.Context(), claims.Subject)
		gallery := mgr.Gallery()
		if gallery == nil {
			gallery = []*core.Wish{}
		}
		render.JSON(w, r, gallery)
	}
}

func HandleDailyPrompt(registry *wish.Registry, clock func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(w, r)
		if !ok {
			return
		}

		mgr := registry.ForUser(r.Context(), claims.Subject)
		render.JSON(w, r, mgr.DailyPrompt(clock()))
	}
}

func HandleCompleteDaily(registry *wish.Registry, clock func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(w, r)
		if !ok {
			return
		}

		var req completeDailyRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}

		mgr := registry.ForUser(r.Context(), claims.Subject)
		found, ok := mgr.Get(req.WishID)
		if !ok {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "Wish not found"})
			return
		}
		if found.Status != core.StatusCompleted {
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, map[string]string{"error": "Wish has not been granted yet"})
			return
		}

		completion := mgr.MarkDailyCompleted(r.Context(), clock(), req.WishID)
		render.JSON(w, r, completion)
	}
}

func HandleShareWish(registry *wish.Registry, shares core.ShareStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(w, r)
		if !ok {
			return
		}
		id, ok := wishIDParam(w, r)
		if !ok {
			return
		}

		mgr := registry.ForUser(r.Context(), claims.Subject)
		found, ok := mgr.Get(id)
		if !ok {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "Wish not found"})
			return
		}
		if found.Status != core.StatusCompleted {
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, map[string]string{"error": "Only granted wishes can be shared"})
			return
		}

		item := &core.SharedCreation{
			Prompt:   found.Prompt,
			Kind:     found.Kind,
			Result:   found.Result,
			SharedBy: claims.Login,
			SharedAt: time.Now(),
		}
		shareID, err := shares.PublishShared(r.Context(), item)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error":  err,
				"userID": claims.Subject,
				"wishID": id,
			}).Error("Failed to publish shared creation")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Failed to share wish"})
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]string{"id": shareID})
	}
}

package shared

import (
	"net/http"

	"gjinn/core"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

// HandleGetShared serves a published creation. The route is public; share
// ids are unguessable ULIDs.
func HandleGetShared(store core.ShareStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Share id is required"})
			return
		}

		item, err := store.FindShared(r.Context(), id)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error":   err,
				"shareID": id,
			}).Warn("Failed to find shared creation")
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"error": "Shared creation not found"})
			return
		}

		render.JSON(w, r, item)
	}
}

package update

import (
	"context"
	"encoding/json"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"sdvn-backend/internal/storage"
	"time"
)

type PlanUpdater interface {
	ApplyEdits(ctx context.Context, edits []storage.PlanEdit) (int, error)
}

type Request struct {
	Plans []storage.PlanEdit `json:"plans"`
}

type Response struct {
	Status  string `json:"status"`
	Updated int    `json:"updated"`
	Error   string `json:"error,omitempty"`
}

// BulkUpdate applies a batch of plan edits. Both the day and month grids
// submit the same shape, so one handler serves both routes.
func BulkUpdate(log *slog.Logger, updater PlanUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.plans.update.BulkUpdate"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("error", err.Error()))
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}

		if len(req.Plans) == 0 {
			http.Error(w, "No plan edits provided", http.StatusBadRequest)
			return
		}

		for i, p := range req.Plans {
			if p.PlanID == 0 {
				log.Error("Missing plan_id", slog.Int("index", i))
				http.Error(w, "plan_id is required", http.StatusBadRequest)
				return
			}
			if p.MachineID == 0 {
				log.Error("Missing machine_id", slog.Int("index", i))
				http.Error(w, "machine_id is required", http.StatusBadRequest)
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		updated, err := updater.ApplyEdits(ctx, req.Plans)
		if err != nil {
			log.Error("Failed to apply plan edits", slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		log.Info("Plan edits applied", slog.Int("updated", updated))

		render.JSON(w, r, Response{
			Status:  "success",
			Updated: updated,
		})
	}
}

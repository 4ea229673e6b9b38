package get

import (
	"context"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"sdvn-backend/internal/storage"
	"strconv"
	"strings"
	"time"
)

type LineStorage interface {
	GetLines(ctx context.Context) ([]*storage.Line, error)
	GetMachinesByLine(ctx context.Context, lineID int64) ([]*storage.Machine, error)
}

func GetLines(log *slog.Logger, lines LineStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.lines.get.GetLines"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		result, err := lines.GetLines(ctx)
		if err != nil {
			log.Error("Failed to get lines", slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if result == nil {
			result = []*storage.Line{}
		}

		render.JSON(w, r, result)
	}
}

func GetMachinesByLine(log *slog.Logger, lines LineStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.lines.get.GetMachinesByLine"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		lineID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			log.Error("Invalid line id", slog.String("error", err.Error()))
			http.Error(w, "Invalid line id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		machines, err := lines.GetMachinesByLine(ctx, lineID)
		if err != nil {
			log.Error("Failed to get machines", slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		// placeholder slots are not real machines
		filtered := make([]*storage.Machine, 0, len(machines))
		for _, m := range machines {
			name := strings.ToLower(strings.TrimSpace(m.MachineName))
			if name == "space" || name == "spare" {
				continue
			}
			filtered = append(filtered, m)
		}

		render.JSON(w, r, filtered)
	}
}

package get

import (
	"context"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"sdvn-backend/internal/storage"
	"strconv"
	"time"
)

type KPIStorage interface {
	GetLines(ctx context.Context) ([]*storage.Line, error)
	GetLineMonthKPI(ctx context.Context, lineID int64, year, month int) (*storage.LineKPI, error)
}

type Response struct {
	Month    int                `json:"month"`
	Year     int                `json:"year"`
	DataType string             `json:"data_type,omitempty"`
	Lines    []*storage.LineKPI `json:"lines"`
	Error    string             `json:"error,omitempty"`
}

// LineKPI returns the month KPI block for one line, or for every line when
// the line param is absent.
func LineKPI(log *slog.Logger, kpi KPIStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.kpi.get.LineKPI"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		month, err := strconv.Atoi(r.URL.Query().Get("month"))
		if err != nil || month < 1 || month > 12 {
			http.Error(w, "Missing or invalid month param", http.StatusBadRequest)
			return
		}

		year, err := strconv.Atoi(r.URL.Query().Get("year"))
		if err != nil {
			http.Error(w, "Missing or invalid year param", http.StatusBadRequest)
			return
		}

		var lineID int64
		if raw := r.URL.Query().Get("line"); raw != "" {
			lineID, err = strconv.ParseInt(raw, 10, 64)
			if err != nil {
				http.Error(w, "Invalid line param", http.StatusBadRequest)
				return
			}
		}

		dataType := r.URL.Query().Get("data")

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		lineIDs, err := resolveLines(ctx, kpi, lineID)
		if err != nil {
			log.Error("Failed to resolve lines", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, Response{Error: "Internal server error"})
			return
		}

		result := make([]*storage.LineKPI, 0, len(lineIDs))
		for _, id := range lineIDs {
			k, err := kpi.GetLineMonthKPI(ctx, id, year, month)
			if err != nil {
				log.Error("Failed to get line KPI",
					slog.Int64("line_id", id),
					slog.String("error", err.Error()))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, Response{Error: "Internal server error"})
				return
			}
			result = append(result, k)
		}

		render.JSON(w, r, Response{
			Month:    month,
			Year:     year,
			DataType: dataType,
			Lines:    result,
		})
	}
}

func resolveLines(ctx context.Context, kpi KPIStorage, lineID int64) ([]int64, error) {
	if lineID != 0 {
		return []int64{lineID}, nil
	}

	lines, err := kpi.GetLines(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.LineID)
	}
	return ids, nil
}

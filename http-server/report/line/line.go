package line

import (
	"context"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"sdvn-backend/internal/service/report"
	"sdvn-backend/internal/storage"
	"strconv"
	"time"
)

type Reports interface {
	LineMonthRatios(ctx context.Context, lineID int64, year, month int) ([]report.RatioDay, error)
	LineMonthCategories(ctx context.Context, lineID int64, year, month int) ([]report.CategoryDay, storage.Categories, error)
	LineYearRatios(ctx context.Context, lineID int64, year int) ([]report.RatioMonth, error)
	LineYearCategories(ctx context.Context, lineID int64, year int) ([]report.CategoryMonth, error)
}

func lineID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func yearParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return time.Now().Year(), nil
	}
	return strconv.Atoi(raw)
}

func MonthRatio(log *slog.Logger, reports Reports) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.line.MonthRatio"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := lineID(r)
		if err != nil {
			http.Error(w, "Invalid line id", http.StatusBadRequest)
			return
		}

		month, err := strconv.Atoi(r.URL.Query().Get("month"))
		if err != nil || month < 1 || month > 12 {
			http.Error(w, "Missing or invalid month param", http.StatusBadRequest)
			return
		}

		year, err := yearParam(r)
		if err != nil {
			http.Error(w, "Invalid year param", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		days, err := reports.LineMonthRatios(ctx, id, year, month)
		if err != nil {
			log.Error("Failed to get line month ratios", slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]any{
			"line_id": id,
			"month":   month,
			"year":    year,
			"days":    days,
		})
	}
}

func MonthTime(log *slog.Logger, reports Reports) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.line.MonthTime"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := lineID(r)
		if err != nil {
			http.Error(w, "Invalid line id", http.StatusBadRequest)
			return
		}

		month, err := strconv.Atoi(r.URL.Query().Get("month"))
		if err != nil || month < 1 || month > 12 {
			http.Error(w, "Missing or invalid month param", http.StatusBadRequest)
			return
		}

		year, err := yearParam(r)
		if err != nil {
			http.Error(w, "Invalid year param", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		days, totals, err := reports.LineMonthCategories(ctx, id, year, month)
		if err != nil {
			log.Error("Failed to get line month categories", slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]any{
			"line_id":        id,
			"month":          month,
			"year":           year,
			"days":           days,
			"monthly_totals": totals,
		})
	}
}

func YearRatio(log *slog.Logger, reports Reports) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.line.YearRatio"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := lineID(r)
		if err != nil {
			http.Error(w, "Invalid line id", http.StatusBadRequest)
			return
		}

		year, err := strconv.Atoi(r.URL.Query().Get("year"))
		if err != nil {
			http.Error(w, "Missing or invalid year param", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		months, err := reports.LineYearRatios(ctx, id, year)
		if err != nil {
			log.Error("Failed to get line year ratios", slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]any{
			"line_id": id,
			"year":    year,
			"months":  months,
		})
	}
}

func YearTime(log *slog.Logger, reports Reports) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.line.YearTime"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := lineID(r)
		if err != nil {
			http.Error(w, "Invalid line id", http.StatusBadRequest)
			return
		}

		year, err := strconv.Atoi(r.URL.Query().Get("year"))
		if err != nil {
			http.Error(w, "Missing or invalid year param", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		months, err := reports.LineYearCategories(ctx, id, year)
		if err != nil {
			log.Error("Failed to get line year categories", slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]any{
			"line_id": id,
			"year":    year,
			"months":  months,
		})
	}
}

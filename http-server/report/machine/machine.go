package machine

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
	MachineDay(ctx context.Context, machineID int64, day string) (*report.DayReport, error)
	MachineMonthRatios(ctx context.Context, machineID int64, year, month int) ([]report.RatioDay, error)
	MachineMonthCategories(ctx context.Context, machineID int64, year, month int) ([]report.CategoryDay, storage.Categories, error)
	MachineYearRatios(ctx context.Context, machineID int64, year int) ([]report.RatioMonth, error)
	MachineYearCategories(ctx context.Context, machineID int64, year int) ([]report.CategoryMonth, error)
}

func machineID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// yearParam reads the optional year query param, falling back to the year of
// the request itself. Never cached across requests.
func yearParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return time.Now().Year(), nil
	}
	return strconv.Atoi(raw)
}

func Day(log *slog.Logger, reports Reports) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.machine.Day"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := machineID(r)
		if err != nil {
			http.Error(w, "Invalid machine id", http.StatusBadRequest)
			return
		}

		day := r.URL.Query().Get("day")
		if day == "" {
			http.Error(w, "Missing day param", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		result, err := reports.MachineDay(ctx, id, day)
		if err != nil {
			log.Error("Failed to build day report", slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if result == nil {
			render.JSON(w, r, map[string]any{
				"machine_id": id,
				"day":        day,
				"data":       nil,
			})
			return
		}

		render.JSON(w, r, result)
	}
}

func MonthRatio(log *slog.Logger, reports Reports) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.machine.MonthRatio"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := machineID(r)
		if err != nil {
			http.Error(w, "Invalid machine id", http.StatusBadRequest)
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

		dataType := r.URL.Query().Get("data")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		days, err := reports.MachineMonthRatios(ctx, id, year, month)
		if err != nil {
			log.Error("Failed to get month ratios", slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]any{
			"machine_id": id,
			"month":      month,
			"year":       year,
			"data_type":  orNil(dataType),
			"days":       days,
		})
	}
}

func MonthTime(log *slog.Logger, reports Reports) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.machine.MonthTime"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := machineID(r)
		if err != nil {
			http.Error(w, "Invalid machine id", http.StatusBadRequest)
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

		days, totals, err := reports.MachineMonthCategories(ctx, id, year, month)
		if err != nil {
			log.Error("Failed to get month categories", slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]any{
			"machine_id":     id,
			"month":          month,
			"year":           year,
			"days":           days,
			"monthly_totals": totals,
		})
	}
}

func YearRatio(log *slog.Logger, reports Reports) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.machine.YearRatio"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := machineID(r)
		if err != nil {
			http.Error(w, "Invalid machine id", http.StatusBadRequest)
			return
		}

		year, err := strconv.Atoi(r.URL.Query().Get("year"))
		if err != nil {
			http.Error(w, "Missing or invalid year param", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		months, err := reports.MachineYearRatios(ctx, id, year)
		if err != nil {
			log.Error("Failed to get year ratios", slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]any{
			"machine_id": id,
			"year":       year,
			"months":     months,
		})
	}
}

func YearTime(log *slog.Logger, reports Reports) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.machine.YearTime"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := machineID(r)
		if err != nil {
			http.Error(w, "Invalid machine id", http.StatusBadRequest)
			return
		}

		year, err := strconv.Atoi(r.URL.Query().Get("year"))
		if err != nil {
			http.Error(w, "Missing or invalid year param", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		months, err := reports.MachineYearCategories(ctx, id, year)
		if err != nil {
			log.Error("Failed to get year categories", slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]any{
			"machine_id": id,
			"year":       year,
			"months":     months,
		})
	}
}

func orNil(v string) any {
	if v == "" {
		return nil
	}
	return v
}

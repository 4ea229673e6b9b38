package get

import (
	"context"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"sdvn-backend/internal/service/errorstat"
	"strconv"
	"time"
)

type Aggregator interface {
	Aggregate(ctx context.Context, from, to time.Time, lineID, machineID int64, sortBy string) ([]errorstat.Item, error)
}

type Response struct {
	Items []errorstat.Item `json:"items"`
	Error string           `json:"error,omitempty"`
}

// Day aggregates error events for one calendar day.
func Day(log *slog.Logger, agg Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.error-events.get.Day"

		day, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
		if err != nil {
			http.Error(w, "Missing or invalid date param", http.StatusBadRequest)
			return
		}

		from, to := errorstat.DayWindow(day)
		serve(w, r, log, op, agg, from, to)
	}
}

// Month aggregates error events for one month.
func Month(log *slog.Logger, agg Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.error-events.get.Month"

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

		from, to := errorstat.MonthWindow(year, month)
		serve(w, r, log, op, agg, from, to)
	}
}

// Year aggregates error events for one year.
func Year(log *slog.Logger, agg Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.error-events.get.Year"

		year, err := strconv.Atoi(r.URL.Query().Get("year"))
		if err != nil {
			http.Error(w, "Missing or invalid year param", http.StatusBadRequest)
			return
		}

		from, to := errorstat.YearWindow(year)
		serve(w, r, log, op, agg, from, to)
	}
}

func serve(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, agg Aggregator, from, to time.Time) {
	log = log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	lineID, err := optionalID(r, "lineid")
	if err != nil {
		http.Error(w, "Invalid lineid param", http.StatusBadRequest)
		return
	}

	machineID, err := optionalID(r, "machineid")
	if err != nil {
		http.Error(w, "Invalid machineid param", http.StatusBadRequest)
		return
	}

	sortBy := r.URL.Query().Get("sort")
	if sortBy == "" {
		sortBy = errorstat.SortByCount
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := agg.Aggregate(ctx, from, to, lineID, machineID, sortBy)
	if err != nil {
		log.Error("Failed to aggregate error events", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, Response{Error: "Internal server error"})
		return
	}

	if items == nil {
		items = []errorstat.Item{}
	}

	render.JSON(w, r, Response{Items: items})
}

func yearParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return time.Now().Year(), nil
	}
	return strconv.Atoi(raw)
}

func optionalID(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

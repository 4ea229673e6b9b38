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

type Planner interface {
	DayPlans(ctx context.Context, lineID, machineID int64, day string) ([]*storage.PlanProduction, error)
	MonthPlans(ctx context.Context, lineID, machineID int64, year, month int) ([]*storage.PlanProduction, error)
}

type Response struct {
	Plans []*storage.PlanProduction `json:"plans"`
	Error string                    `json:"error,omitempty"`
}

// DayPlans returns the plan rows for (line, date), creating default rows for
// machines that have none yet.
func DayPlans(log *slog.Logger, planner Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.plans.get.DayPlans"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		lineID, err := strconv.ParseInt(r.URL.Query().Get("idline"), 10, 64)
		if err != nil {
			http.Error(w, "Missing or invalid idline param", http.StatusBadRequest)
			return
		}

		machineID, err := optionalID(r, "idmachine")
		if err != nil {
			http.Error(w, "Invalid idmachine param", http.StatusBadRequest)
			return
		}

		date := r.URL.Query().Get("date")
		if _, err := time.Parse("2006-01-02", date); err != nil {
			http.Error(w, "Missing or invalid date param", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		plans, err := planner.DayPlans(ctx, lineID, machineID, date)
		if err != nil {
			log.Error("Failed to get day plans", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, Response{Error: "Internal server error"})
			return
		}

		if plans == nil {
			plans = []*storage.PlanProduction{}
		}

		render.JSON(w, r, Response{Plans: plans})
	}
}

// MonthPlans returns a month of plan rows, backfilling missing dates with
// zero-hour defaults first.
func MonthPlans(log *slog.Logger, planner Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.plans.get.MonthPlans"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		lineID, err := strconv.ParseInt(r.URL.Query().Get("idline"), 10, 64)
		if err != nil {
			http.Error(w, "Missing or invalid idline param", http.StatusBadRequest)
			return
		}

		machineID, err := optionalID(r, "idmachine")
		if err != nil {
			http.Error(w, "Invalid idmachine param", http.StatusBadRequest)
			return
		}

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

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		plans, err := planner.MonthPlans(ctx, lineID, machineID, year, month)
		if err != nil {
			log.Error("Failed to get month plans", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, Response{Error: "Internal server error"})
			return
		}

		if plans == nil {
			plans = []*storage.PlanProduction{}
		}

		render.JSON(w, r, Response{Plans: plans})
	}
}

func optionalID(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

package export

import (
	"github.com/go-chi/chi/v5"
	"golang.org/x/net/context"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type MachineExporter interface {
	MachineMonthExcel(ctx context.Context, machineID int64, year, month int, dataType string) ([]byte, string, error)
	MachineYearExcel(ctx context.Context, machineID int64, year int, dataType string) ([]byte, string, error)
}

func MachineMonth(log *slog.Logger, gen MachineExporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.export.MachineMonth"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid machine id", http.StatusBadRequest)
			return
		}

		month, err := strconv.Atoi(r.URL.Query().Get("month"))
		if err != nil || month < 1 || month > 12 {
			http.Error(w, "Missing or invalid month param", http.StatusBadRequest)
			return
		}

		year := time.Now().Year()
		if raw := r.URL.Query().Get("year"); raw != "" {
			year, err = strconv.Atoi(raw)
			if err != nil {
				http.Error(w, "Invalid year param", http.StatusBadRequest)
				return
			}
		}

		dataType := r.URL.Query().Get("data")
		if dataType == "" {
			dataType = "ALL"
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		excelBytes, filename, err := gen.MachineMonthExcel(ctx, id, year, month, dataType)
		if err != nil {
			log.Error("failed to generate month excel", "op", op, "err", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentTypeXLSX)
		w.Header().Set("Content-Disposition", "attachment; filename="+filename)
		w.Write(excelBytes)
	}
}

func MachineYear(log *slog.Logger, gen MachineExporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.export.MachineYear"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid machine id", http.StatusBadRequest)
			return
		}

		year, err := strconv.Atoi(r.URL.Query().Get("year"))
		if err != nil {
			http.Error(w, "Missing or invalid year param", http.StatusBadRequest)
			return
		}

		dataType := r.URL.Query().Get("data")
		if dataType == "" {
			dataType = "ALL"
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		excelBytes, filename, err := gen.MachineYearExcel(ctx, id, year, dataType)
		if err != nil {
			log.Error("failed to generate year excel", "op", op, "err", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentTypeXLSX)
		w.Header().Set("Content-Disposition", "attachment; filename="+filename)
		w.Write(excelBytes)
	}
}

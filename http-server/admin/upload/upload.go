package upload

import (
	"context"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"io"
	"log/slog"
	"net/http"
	"sdvn-backend/internal/service/ingest"
	"time"
)

type Importer interface {
	ImportCSV(ctx context.Context, r io.Reader) (ingest.Result, error)
}

type Response struct {
	Status   string `json:"status"`
	Inserted int    `json:"inserted"`
	Skipped  int    `json:"skipped"`
	Error    string `json:"error,omitempty"`
}

// ImportDayValues accepts a multipart CSV upload (field name "file") and runs
// it through the dayvalues loader.
func ImportDayValues(log *slog.Logger, importer Importer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.admin.upload.ImportDayValues"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		file, _, err := r.FormFile("file")
		if err != nil {
			log.Error("Missing csv file", slog.String("error", err.Error()))
			http.Error(w, "Missing csv file upload", http.StatusBadRequest)
			return
		}
		defer file.Close()

		ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
		defer cancel()

		result, err := importer.ImportCSV(ctx, file)
		if err != nil {
			log.Error("CSV import failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, Response{Error: "Internal server error"})
			return
		}

		log.Info("CSV import finished",
			slog.Int("inserted", result.Inserted),
			slog.Int("skipped", result.Skipped),
		)

		render.JSON(w, r, Response{
			Status:   "success",
			Inserted: result.Inserted,
			Skipped:  result.Skipped,
		})
	}
}

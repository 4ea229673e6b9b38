package main

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"log/slog"
	adminupload "sdvn-backend/http-server/admin/upload"
	errorget "sdvn-backend/http-server/error-events/get"
	kpiexport "sdvn-backend/http-server/kpi/export"
	kpiget "sdvn-backend/http-server/kpi/get"
	linesget "sdvn-backend/http-server/lines/get"
	plansget "sdvn-backend/http-server/plans/get"
	plansupdate "sdvn-backend/http-server/plans/update"
	reportexport "sdvn-backend/http-server/report/export"
	reportline "sdvn-backend/http-server/report/line"
	reportmachine "sdvn-backend/http-server/report/machine"
	"sdvn-backend/http-server/users/login"
	"sdvn-backend/http-server/users/register"
	"sdvn-backend/internal/config"
	"sdvn-backend/internal/middleware/auth"
	"sdvn-backend/internal/service/errorstat"
	generate_excel "sdvn-backend/internal/service/generate-excel"
	"sdvn-backend/internal/service/ingest"
	"sdvn-backend/internal/service/plan"
	"sdvn-backend/internal/service/report"
	"sdvn-backend/internal/storage/mysql"
)

func routes(
	cfg config.Config,
	log *slog.Logger,
	storage *mysql.Storage,
	reports *report.Service,
	planner *plan.Service,
	errors *errorstat.Service,
	importer *ingest.Service,
	exporter *generate_excel.ExportService,
) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Post("/api/login", login.Login(log, storage))
	router.Post("/api/register", register.Register(log, storage))

	router.Get("/api/lines", linesget.GetLines(log, storage))
	router.Get("/api/lines/{id}/machines", linesget.GetMachinesByLine(log, storage))

	router.Get("/api/machines/{id}/day", reportmachine.Day(log, reports))
	router.Get("/api/machines/{id}/month-ratio", reportmachine.MonthRatio(log, reports))
	router.Get("/api/machines/{id}/month", reportmachine.MonthTime(log, reports))
	router.Get("/api/machines/{id}/year-ratio", reportmachine.YearRatio(log, reports))
	router.Get("/api/machines/{id}/year", reportmachine.YearTime(log, reports))

	router.Get("/api/machines/{id}/month-export", reportexport.MachineMonth(log, exporter))
	router.Get("/api/machines/{id}/year-export", reportexport.MachineYear(log, exporter))

	router.Get("/api/lines/{id}/month-ratio", reportline.MonthRatio(log, reports))
	router.Get("/api/lines/{id}/month", reportline.MonthTime(log, reports))
	router.Get("/api/lines/{id}/year-ratio", reportline.YearRatio(log, reports))
	router.Get("/api/lines/{id}/year", reportline.YearTime(log, reports))

	router.Get("/api/line-kpi", kpiget.LineKPI(log, storage))
	router.Get("/api/export-kpi", kpiexport.ExportKPI(log, exporter))

	router.Get("/api/day-plans", plansget.DayPlans(log, planner))
	router.Put("/api/day-plans/bulk-update", plansupdate.BulkUpdate(log, planner))
	router.Get("/api/month-plans", plansget.MonthPlans(log, planner))
	router.Put("/api/month-plans/bulk-update", plansupdate.BulkUpdate(log, planner))

	router.Get("/api/error-events", errorget.Day(log, errors))
	router.Get("/api/error-events-month", errorget.Month(log, errors))
	router.Get("/api/error-events-year", errorget.Year(log, errors))
	// older dashboard builds still call these
	router.Get("/api/erroranalys/day", errorget.Day(log, errors))
	router.Get("/api/error-analysis/month", errorget.Month(log, errors))
	router.Get("/api/error-analysis/year", errorget.Year(log, errors))

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Post("/import-dayvalues", adminupload.ImportDayValues(log, importer))

	router.Mount("/api/admin", adminRouter)

	return router
}

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-funnel/internal/infra/http/handlers"
	appmw "github.com/xavierca1/lead-funnel/internal/infra/http/middleware"
)

type RouterDeps struct {
	ServerID       string
	AllowedOrigins []string
	AdminSecret    string
	RateLimiter    *appmw.RateLimiter // nil = sem limite
	Log            *logrus.Logger

	Leads  *handlers.LeadHandler
	Sheets *handlers.SheetsHandler
	Health *handlers.HealthHandler
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if d.Log != nil {
		r.Use(chimw.RequestLogger(&chimw.DefaultLogFormatter{Logger: d.Log, NoColor: true}))
	} else {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(appmw.Metrics)

	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/"+d.ServerID, func(r chi.Router) {
		r.Get("/health", d.Health.Handle)

		submit := http.Handler(http.HandlerFunc(d.Leads.SubmitLead))
		if d.RateLimiter != nil {
			submit = d.RateLimiter.Handler(submit)
		}
		r.Method(http.MethodPost, "/leads", submit)

		r.Get("/test-sheets", d.Sheets.TestSheets)
		r.Get("/sheets-status", d.Sheets.SheetsStatus)

		// Rotas de operador
		r.Group(func(r chi.Router) {
			r.Use(appmw.AdminAuth(d.AdminSecret))

			r.Get("/leads", d.Leads.ListLeads)
			r.Get("/leads/{id}", d.Leads.GetLead)
			r.Put("/leads/{id}/status", d.Leads.UpdateLeadStatus)
			r.Delete("/leads/{id}", d.Leads.DeleteLead)
			r.Post("/sync-to-sheets", d.Leads.SyncToSheets)
		})
	})

	return r
}

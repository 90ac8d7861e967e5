package handlers

import (
	"net/http"
	"strings"

	"cashbook/internal/config"
	"cashbook/internal/db"
	"cashbook/internal/middleware"
	"cashbook/internal/websocket"
	"cashbook/internal/whatsapp"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Handler struct {
	txRunner   db.TxRunner
	cfg        config.Config
	logger     *zap.Logger
	users      UserStore
	profiles   ProfileStore
	audit      AuditStore
	ledger     LedgerService
	reports    ReportService
	whatsapp   MessageProcessor
	signatures SignatureValidator
	hub        *websocket.Hub
}

// New wires the HTTP layer. signatures may be nil, which turns webhook
// signature checks off.
func New(txRunner db.TxRunner, cfg config.Config, logger *zap.Logger, users UserStore, profiles ProfileStore, audit AuditStore, ledger LedgerService, reports ReportService, processor MessageProcessor, signatures SignatureValidator, hub *websocket.Hub) *Handler {
	return &Handler{
		txRunner:   txRunner,
		cfg:        cfg,
		logger:     logger,
		users:      users,
		profiles:   profiles,
		audit:      audit,
		ledger:     ledger,
		reports:    reports,
		whatsapp:   processor,
		signatures: signatures,
		hub:        hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.RequestLogger(h.logger))
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(h.cfg.AllowedOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(middleware.Auth(h.cfg.JWTSecret)).Get("/me", h.Me)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))

		r.Get("/profile", h.GetProfile)
		r.Put("/profile/whatsapp", h.LinkWhatsApp)
		r.Delete("/profile/whatsapp", h.UnlinkWhatsApp)

		r.Get("/books", h.ListBooks)
		r.Post("/books", h.CreateBook)
		r.Route("/books/{bookID}", func(r chi.Router) {
			r.Get("/", h.GetBook)
			r.Put("/", h.UpdateBook)
			r.Delete("/", h.DeleteBook)
			r.Get("/reconcile", h.Reconcile)
			r.Post("/reconcile", h.Reconcile)
			r.Get("/summary", h.BookSummary)
			r.Get("/dashboard", h.Dashboard)
			r.Get("/reports", h.MonthlyReport)

			r.Get("/categories", h.ListCategories)
			r.Post("/categories", h.CreateCategory)
			r.Delete("/categories/{categoryID}", h.DeleteCategory)

			r.Get("/entries", h.ListEntries)
			r.Post("/entries", h.CreateEntry)
			r.Get("/entries/{entryID}", h.GetEntry)
			r.Put("/entries/{entryID}", h.UpdateEntry)
			r.Delete("/entries/{entryID}", h.DeleteEntry)
		})

		r.Get("/entries", h.SearchEntries)
		r.Get("/activity", h.ListActivity)
	})

	router.Get("/ws/books", h.WSBooks)

	router.Post(whatsapp.WebhookPath, h.WhatsAppWebhook)
	router.Get(whatsapp.WebhookPath, h.WhatsAppStatus)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}

func allowedOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

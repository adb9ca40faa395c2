// cmd/server/main.go
package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/gracechapel/flocktext-backend/internal/auth"
	"github.com/gracechapel/flocktext-backend/internal/config"
	"github.com/gracechapel/flocktext-backend/internal/controller"
	"github.com/gracechapel/flocktext-backend/internal/db"
	"github.com/gracechapel/flocktext-backend/internal/gateway"
	"github.com/gracechapel/flocktext-backend/internal/httputil"
	"github.com/gracechapel/flocktext-backend/internal/middleware"
	"github.com/gracechapel/flocktext-backend/internal/repository"
	"github.com/gracechapel/flocktext-backend/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file found, relying on OS environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	memberRepo := &repository.MemberRepository{DB: database}
	logRepo := &repository.MessageLogRepository{DB: database}
	optOutRepo := &repository.OptOutEventRepository{DB: database}

	dispatchService := &service.DispatchService{
		Members:       memberRepo,
		Logs:          logRepo,
		Sender:        gateway.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken),
		Location:      cfg.Location,
		SendStartHour: cfg.SendStartHour,
		SendEndHour:   cfg.SendEndHour,
		SMSFrom:       cfg.TwilioSMSFrom,
	}
	memberService := &service.MemberService{Members: memberRepo}

	messageController := &controller.MessageController{Dispatch: dispatchService, Logs: logRepo}
	memberController := &controller.MemberController{Members: memberService}
	webhookController := &controller.WebhookController{Members: memberRepo, OptOuts: optOutRepo}
	authController := &controller.AuthController{Cfg: cfg}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins(cfg.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.RateLimit(rate.Every(time.Minute/120), 120))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	// The carrier posts here unauthenticated; mounted outside the admin group.
	r.Post("/twilio-webhook", webhookController.Inbound)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(rate.Every(15*time.Minute/20), 20))
		r.Post("/public/register", memberController.Register)
	})

	r.Post("/auth/login", authController.Login)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg.JWTSecret))

		r.Get("/members", memberController.ListMembers)
		r.Post("/members", memberController.CreateMember)
		r.Post("/members/bulk", memberController.BulkImportMembers)
		r.Patch("/members/{id}/status", memberController.UpdateMemberStatus)
		r.Delete("/members/{id}", memberController.DeleteMember)

		r.Post("/send-message", messageController.SendMessage)
		r.Get("/logs", messageController.ListLogs)
	})

	logger.Info("server listening", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func corsOrigins(configured []string) []string {
	if len(configured) == 0 {
		return []string{"*"}
	}
	return configured
}

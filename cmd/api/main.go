package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kashtn/nail-studio/internal/auth"
	"github.com/kashtn/nail-studio/internal/booking"
	"github.com/kashtn/nail-studio/internal/cache"
	"github.com/kashtn/nail-studio/internal/config"
	"github.com/kashtn/nail-studio/internal/db"
	"github.com/kashtn/nail-studio/internal/gateway"
	"github.com/kashtn/nail-studio/internal/handlers"
	"github.com/kashtn/nail-studio/internal/metrics"
	"github.com/kashtn/nail-studio/internal/middleware"
	"github.com/kashtn/nail-studio/internal/notifications"
	"github.com/kashtn/nail-studio/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected")
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cacheStore cache.Cache = cache.NewNoop()
	var redisCache *cache.RedisCache
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var err error
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis connected")
		cacheStore = redisCache
	}

	var jwtManager *auth.Manager
	if cfg.JWTSecret != "" {
		jwtManager = &auth.Manager{
			Secret:     []byte(cfg.JWTSecret),
			AccessTTL:  time.Duration(cfg.AccessTTLMinutes) * time.Minute,
			RefreshTTL: time.Duration(cfg.RefreshTTLMinutes) * time.Minute,
			Issuer:     "nail-studio",
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	bookingMetrics := metrics.NewBookingMetrics(registry)

	mailer := notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName, cfg.BrevoSandbox)
	if mailer == nil {
		logger.Info("brevo mailer disabled")
	} else {
		logger.Info("brevo mailer enabled", slog.String("sender", cfg.BrevoSenderEmail), slog.Bool("sandbox", cfg.BrevoSandbox))
	}

	notifier := gateway.NewNotifier(cfg.GatewayURL, logger, bookingMetrics)
	if notifier == nil {
		logger.Info("sync gateway disabled")
	} else {
		logger.Info("sync gateway enabled", slog.String("url", cfg.GatewayURL))
	}

	// Wizard drafts live in Redis when it is configured, in memory otherwise.
	var draftStore booking.Store
	if redisCache != nil {
		draftStore = booking.NewRedisStore(redisCache.Client(), time.Duration(cfg.DraftTTLHours)*time.Hour)
	} else {
		logger.Info("redis not configured, booking drafts kept in memory")
		draftStore = booking.NewMemoryStore()
	}

	repo := booking.NewMongoRepository(cols.Services, cols.Appointments, cfg.Timezone)
	catalogSource := &booking.FallbackCatalog{Primary: repo, Log: logger}
	var bookingMailer booking.Mailer
	if mailer != nil {
		bookingMailer = mailer
	}
	bookingService := booking.NewService(catalogSource, repo, draftStore, notifier, bookingMailer, bookingMetrics, logger, cfg.Timezone, booking.Hours{
		OpeningHour: cfg.OpeningHour,
		ClosingHour: cfg.ClosingHour,
		SlotMinutes: cfg.SlotMinutes,
		WindowDays:  cfg.BookingWindowDays,
	})

	val := validation.New()
	bookingHandler := booking.NewHandler(bookingService, val, jwtManager, logger)

	var serverMailer handlers.AppointmentMailer
	if mailer != nil {
		serverMailer = mailer
	}
	server := &handlers.Server{
		Cfg:    cfg,
		Cols:   cols,
		Val:    val,
		Log:    logger,
		Cache:  cacheStore,
		Mailer: serverMailer,
		Sync:   notifier,
		JWT:    jwtManager,
		Slots:  bookingService,
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigins))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	bookingLimiter := middleware.NewRateLimiter(cfg.RateLimitBooking, time.Duration(cfg.RateLimitWindowSec)*time.Second)
	contactLimiter := middleware.NewRateLimiter(cfg.RateLimitContact, time.Duration(cfg.RateLimitWindowSec)*time.Second)

	registerRoutes := func(api chi.Router) {
		api.Get("/services", server.GetServices)
		api.Get("/services/{id}", server.GetService)
		api.Get("/services/{id}/reviews", server.GetServiceReviews)
		api.With(contactLimiter.Middleware).Post("/services/{id}/reviews", server.CreateServiceReview)

		api.Get("/availability", server.GetAvailability)

		api.Group(func(wizard chi.Router) {
			wizard.Use(bookingLimiter.Middleware)
			bookingHandler.Routes(wizard)
		})

		api.Get("/appointments/{id}", server.GetAppointment)
		api.Group(func(protected chi.Router) {
			protected.Use(middleware.ClientAuth(jwtManager))
			protected.Get("/appointments", server.ListAppointments)
			protected.Post("/appointments/{id}/cancel", server.CancelAppointment)
			protected.Get("/profile", server.GetProfile)
			protected.Put("/profile", server.UpdateProfile)
			protected.Get("/auth/me", server.Me)
		})

		api.With(contactLimiter.Middleware).Post("/contact", server.CreateContact)

		api.Route("/auth", func(a chi.Router) {
			a.Post("/register", server.Register)
			a.Post("/login", server.Login)
			a.Post("/refresh", server.Refresh)
			a.Post("/logout", server.Logout)
		})

		api.Route("/admin", func(admin chi.Router) {
			admin.Post("/login", server.AdminLogin)
			admin.Post("/refresh", server.AdminRefresh)
			admin.Post("/logout", server.AdminLogout)

			admin.Group(func(protected chi.Router) {
				protected.Use(middleware.AdminAuth(cfg.AdminAPIKey, jwtManager))
				protected.Post("/services", server.AdminCreateService)
				protected.Put("/services/{id}", server.AdminUpdateService)
				protected.Delete("/services/{id}", server.AdminDeleteService)
				protected.Get("/appointments", server.AdminListAppointments)
				protected.Patch("/appointments/{id}/status", server.AdminUpdateAppointmentStatus)
				protected.Get("/contacts", server.AdminListContacts)
			})
		})
	}

	r.Route("/api", registerRoutes)
	r.Route("/api/v1", registerRoutes)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}

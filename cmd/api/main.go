package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andrei-deeyu/4truckLoad-server/internal/admin"
	"github.com/andrei-deeyu/4truckLoad-server/internal/auth"
	"github.com/andrei-deeyu/4truckLoad-server/internal/broker"
	"github.com/andrei-deeyu/4truckLoad-server/internal/config"
	"github.com/andrei-deeyu/4truckLoad-server/internal/db"
	"github.com/andrei-deeyu/4truckLoad-server/internal/handlers"
	"github.com/andrei-deeyu/4truckLoad-server/internal/repository"
)

func main() {
	cfg := config.Load() // .env

	_ = config.InitLogger(cfg.LogLevel)
	slog.Info("starting", "port", cfg.Port, "mongo_db", cfg.MongoDB)

	// HOOK: admin job (one-off)
	task := flag.String("task", "", "admin task: seed")
	flag.Parse()
	if *task != "" {
		switch *task {
		case "seed":
			client, err := db.NewMongoClient(cfg.MongoURI)
			if err != nil {
				slog.Error("mongo_connect_error", "err", err)
				os.Exit(1)
			}
			defer func() { _ = client.Disconnect(context.Background()) }()

			repo := repository.NewFreightRepository(client.Database(cfg.MongoDB))
			if err := admin.SeedFreights(context.Background(), repo, slog.Default()); err != nil {
				slog.Error("seed_failed", "err", err)
				os.Exit(1)
			}
			slog.Info("seed_done")
			return
		default:
			slog.Error("unknown_admin_task", "task", *task)
			os.Exit(2)
		}
	}

	client, err := db.NewMongoClient(cfg.MongoURI)
	if err != nil {
		log.Fatalf("mongo connect error: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	database := client.Database(cfg.MongoDB)
	companies := repository.NewCompanyRepository(database)
	freights := repository.NewFreightRepository(database)
	stats := repository.NewStatsRepository(database)

	{
		ictx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := companies.EnsureIndexes(ictx); err != nil {
			log.Fatalf("company indexes error: %v", err)
		}
		if err := freights.EnsureIndexes(ictx); err != nil {
			log.Fatalf("freight indexes error: %v", err)
		}
	}

	pub, err := broker.NewPublisher(cfg.RabbitURI, cfg.RabbitQueue)
	if err != nil {
		log.Fatalf("rabbitmq connect error: %v", err)
	}
	defer pub.Close()

	mw := auth.NewMiddleware(cfg.JWTSecret, cfg.ClaimNamespace)
	mgmt := auth.NewManagement("https://"+cfg.Auth0Domain, cfg.Auth0ClientID, cfg.Auth0ClientSecret, cfg.Auth0Audience)

	ch := handlers.NewCompanyHandler(companies)
	fh := handlers.NewFreightHandler(freights, pub)
	sh := handlers.NewStatsHandler(stats)
	ah := handlers.NewAuthHandler(mgmt)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handlers.Health)
	mux.HandleFunc("/company", mw.Require(ch.Company))
	mux.HandleFunc("/freights", mw.Require(fh.Freights))
	mux.HandleFunc("/userAddedFreights", mw.Require(fh.UserAddedFreights))
	mux.HandleFunc("/freight", mw.Require(fh.CreateFreight))
	mux.HandleFunc("/freight/", mw.Require(fh.FreightByID))
	mux.HandleFunc("/whichCTA", sh.WhichCTA)
	// the root probe and the verification-email resend serve callers that are
	// not fully onboarded yet, so neither sits behind the token check
	mux.HandleFunc("/auth/", ah.Root)
	mux.HandleFunc("/auth/verification-email", ah.VerificationEmail)
	mux.HandleFunc("/auth/getUserMetadata", mw.Require(ah.GetUserMetadata))
	mux.HandleFunc("/auth/changeUserMetadata", mw.Require(ah.ChangeUserMetadata))
	mux.HandleFunc("/auth/planchanged", mw.Require(ah.PlanChanged))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           logMiddleware(mux),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("graceful shutdown error", "err", err)
	}
}

type statusRW struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusRW) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRW) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusRW{ResponseWriter: w}
		next.ServeHTTP(srw, r)
		slog.Info("http_request",
			"method", r.Method, "path", r.URL.Path,
			"status", srw.status, "bytes", srw.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote", r.RemoteAddr,
		)
	})
}

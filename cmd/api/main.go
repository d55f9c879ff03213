package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"golang.org/x/time/rate"

	"github.com/medrec/records-api/internal/config"
	"github.com/medrec/records-api/internal/email"
	appointmentHandler "github.com/medrec/records-api/internal/handler/appointment"
	doctorHandler "github.com/medrec/records-api/internal/handler/doctor"
	medicalRecordHandler "github.com/medrec/records-api/internal/handler/medicalrecord"
	patientHandler "github.com/medrec/records-api/internal/handler/patient"
	"github.com/medrec/records-api/internal/middleware"
	"github.com/medrec/records-api/internal/repository/filestore"
	"github.com/medrec/records-api/internal/router"
	appointmentService "github.com/medrec/records-api/internal/service/appointment"
	doctorService "github.com/medrec/records-api/internal/service/doctor"
	"github.com/medrec/records-api/internal/service/integrity"
	medicalRecordService "github.com/medrec/records-api/internal/service/medicalrecord"
	patientService "github.com/medrec/records-api/internal/service/patient"
	"github.com/medrec/records-api/pkg/event"
	"github.com/medrec/records-api/pkg/idgen"
	"github.com/medrec/records-api/pkg/logger"
	"github.com/medrec/records-api/pkg/messaging"
	redisbroker "github.com/medrec/records-api/pkg/messaging/redis"
	"github.com/medrec/records-api/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(&logger.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
	})

	registry := prometheus.NewRegistry()
	m := metrics.New("medrec", registry)

	// Storage
	store := filestore.New(afero.NewOsFs(), cfg.Storage.Dir, log, m)
	if err := store.Initialize(); err != nil {
		log.Fatal(err, "failed to initialize storage")
	}

	patientRepo := filestore.NewPatientRepository(store)
	doctorRepo := filestore.NewDoctorRepository(store)
	appointmentRepo := filestore.NewAppointmentRepository(store)
	medicalRecordRepo := filestore.NewMedicalRecordRepository(store)

	// Event broker: redis when configured, otherwise a no-op.
	var broker messaging.Broker = messaging.NewNoopBroker()
	if cfg.Redis.URL != "" {
		broker, err = redisbroker.NewBroker(redisbroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, log.Zerolog())
		if err != nil {
			log.Fatal(err, "failed to connect event broker")
		}
	}
	defer broker.Close()

	events := event.NewPublisher(broker, "records.events", log, m)

	// Notifications: SMTP when configured, otherwise a no-op.
	notifier := email.NewNoopService()
	if cfg.Email.Host != "" {
		notifier = email.NewService(email.Config{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
		})
	}

	checker := integrity.NewChecker(patientRepo, doctorRepo)
	ids := idgen.New()

	patientSvc := patientService.NewService(patientRepo, appointmentRepo, medicalRecordRepo, ids, events, checker)
	doctorSvc := doctorService.NewService(doctorRepo, appointmentRepo, medicalRecordRepo, ids, events, checker)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, checker, ids, events, notifier, log)
	medicalRecordSvc := medicalRecordService.NewService(medicalRecordRepo, checker, ids, events)

	r := router.New(
		router.Config{
			RateLimit: rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst: cfg.RateLimit.Burst,
			CORS:      middleware.DefaultCORSConfig(),
		},
		log.Zerolog(),
		registry,
		patientHandler.NewHandler(patientSvc),
		doctorHandler.NewHandler(doctorSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		medicalRecordHandler.NewHandler(medicalRecordSvc),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info(fmt.Sprintf("listening on %s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "forced shutdown")
	}
}

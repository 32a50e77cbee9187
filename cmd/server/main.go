package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bujeonghospital-dev/React-Business-sub001/internal/business/ads"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/business/callcenter"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/business/contacts"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/business/investor"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/business/performance"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/business/refresh"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/config"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/facebook"
	firestoreclient "github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/firestore"
	apirouter "github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/http"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/logging"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/metrics"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/pyapi"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/setmarket"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/sheets"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/yalecom"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/repository"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.GinMode)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.GinMode)
	loc := cfg.Location()
	m := metrics.New()

	firestoreClient, credsSource, err := firestoreclient.New(ctx, cfg)
	if err != nil {
		logger.Fatal("firestore init", zap.Error(err))
	}
	defer firestoreClient.Close()

	if err := firestoreclient.Ping(ctx, firestoreClient); err != nil {
		logger.Fatal("firestore ping", zap.Error(err))
	}
	logger.Info("connected to Firestore",
		zap.String("project", cfg.FirebaseProjectID),
		zap.String("credentials", credsSource))

	contactRepo := repository.NewContactRepository(firestoreClient)
	callLogRepo := repository.NewCallLogRepository(firestoreClient)
	targetsRepo := repository.NewTargetsRepository(firestoreClient)

	// A nil *sheets.Client must not reach the services as a non-nil interface.
	var sheetReader interface {
		Values(ctx context.Context, a1Range string) ([][]string, error)
	}
	if sc, err := sheets.New(ctx, cfg); err != nil {
		logger.Warn("google sheets unavailable, sheet-backed views will report errors", zap.Error(err))
	} else {
		sheetReader = sc
	}

	roster, err := performance.LoadRoster(cfg.RosterFile)
	if err != nil {
		logger.Fatal("roster", zap.Error(err))
	}

	dataAPI := pyapi.New(nil, pyapi.Config{BaseURL: cfg.PythonAPIURL})
	perfSvc := performance.NewService(performance.Deps{
		Sheets:        sheetReader,
		ScheduleRange: cfg.FilmDataRange,
		Data:          dataAPI,
		Targets:       targetsRepo,
		Roster:        roster,
		Location:      loc,
		Logger:        logger.Named("performance"),
		Observer:      m,
	})

	queue := callcenter.NewQueueMonitor(yalecom.New(nil, cfg.YalecomAPIURL, cfg.YalecomAPIKey), yalecom.DefaultQueueExtension, logger.Named("queue"))
	callSvc := callcenter.NewService(callLogRepo, queue, loc)

	contactSvc := contacts.NewService(contacts.Deps{
		Sheets:   sheetReader,
		Range:    cfg.FilmDevRange,
		Store:    contactRepo,
		Queue:    queue,
		CacheTTL: cfg.ContactsTTL,
		CacheObs: m,
		Logger:   logger.Named("contacts"),
		Location: loc,
	})

	adsSvc := ads.NewService(facebook.New(nil, "", cfg.FacebookAccessToken, cfg.FacebookAdAccountID), ads.DefaultBackoff, nil, logger.Named("ads"))
	stockSvc := investor.NewService(setmarket.New(nil, cfg.SetAPIURL, cfg.SetAPIKey), 5*time.Minute, m)

	registry := refresh.NewRegistry()
	var pollers *refreshWait
	if cfg.PollingEnabled {
		wg, err := refresh.Start(ctx, registry,
			refresh.Poller{Name: "surgery", Interval: refresh.SurgeryInterval, Fn: perfSvc.Poll, Logger: logger, Observer: m},
			refresh.Poller{Name: "contacts", Interval: refresh.ContactsInterval, Fn: contactSvc.Poll, Logger: logger, Observer: m},
			refresh.Poller{Name: "queue", Interval: refresh.QueueInterval, Fn: queue.Poll, Logger: logger, Observer: m},
			refresh.Poller{Name: "ads", Interval: refresh.AdsInterval, Fn: adsSvc.Poll, Logger: logger, Observer: m},
		)
		if err != nil {
			logger.Fatal("start pollers", zap.Error(err))
		}
		pollers = &refreshWait{wg: wg}
		logger.Info("pollers started", zap.Strings("names", registry.Names()))
	}

	router := apirouter.NewRouter(apirouter.Deps{
		Performance:    perfSvc,
		Contacts:       contactSvc,
		CallCenter:     callSvc,
		Ads:            adsSvc,
		Stock:          stockSvc,
		Metrics:        m,
		Logger:         logger.Named("http"),
		AllowedOrigins: cfg.AllowedOrigins,
		Location:       loc,
		AccessLog:      true,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()
	logger.Info("server listening",
		zap.String("port", cfg.Port),
		zap.String("timezone", loc.String()),
		zap.Strings("origins", cfg.Origins()))

	<-ctx.Done()
	stop()

	registry.CancelAll()
	if pollers != nil {
		pollers.wait(5 * time.Second)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("server exited")
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staybook/internal/app/commands"
	bookingapp "staybook/internal/app/handlers/booking"
	hostpricingapp "staybook/internal/app/handlers/hostpricing"
	"staybook/internal/app/middleware"
	appoutbox "staybook/internal/app/outbox"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	"staybook/internal/infra/broker/kafka"
	"staybook/internal/infra/config"
	mongodb "staybook/internal/infra/db/mongo"
	ginserver "staybook/internal/infra/http/gin"
	"staybook/internal/infra/obs"
	infraoutbox "staybook/internal/infra/outbox"
	"staybook/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	app, cleanup, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	if app.worker != nil {
		go func() {
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	worker   *infraoutbox.Worker
	ready    func() error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, func(), error) {
	cleanup := func() {}

	var (
		uowFactory uow.UoWFactory
		outboxImpl appoutbox.Outbox
		worker     *infraoutbox.Worker
		ready      = func() error { return nil }
	)

	switch cfg.StorageMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, cleanup, err
		}
		if err := client.Ping(ctx); err != nil {
			_ = client.Close(ctx)
			return application{}, cleanup, err
		}
		store := infraoutbox.NewStore(client.DB)
		uowFactory = mongodb.Factory{
			DB:               client.DB,
			ListingsRepo:     mongodb.NewListingRepository(client.DB),
			ReservationsRepo: mongodb.NewReservationRepository(client.DB),
			OverridesRepo:    mongodb.NewOverrideRepository(client.DB),
			SeasonsRepo:      mongodb.NewSeasonRepository(client.DB),
		}
		outboxImpl = store
		ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		closeClient := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Close(closeCtx)
		}
		cleanup = closeClient

		if len(cfg.KafkaBrokers) > 0 {
			producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
			if err != nil {
				closeClient()
				return application{}, func() {}, err
			}
			worker = &infraoutbox.Worker{
				Store:    store,
				Producer: producer,
				Logger:   logger,
				Interval: cfg.OutboxPollInterval,
				Backoff:  cfg.RetryBackoff,
			}
			cleanup = func() {
				_ = producer.Close()
				closeClient()
			}
		} else {
			logger.Warn("no kafka brokers configured, outbox rows will accumulate")
		}
	default:
		uowFactory = memory.Factory{
			ListingsRepo:     memory.NewListingRepository(),
			ReservationsRepo: memory.NewReservationRepository(),
			OverridesRepo:    memory.NewOverrideRepository(),
			SeasonsRepo:      memory.NewSeasonRepository(),
		}
		outboxImpl = memory.NewOutbox()
	}

	encoder := appoutbox.JSONEventEncoder{}
	idStore := memory.NewIdempotencyStore()

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, bookingapp.RequestBookingCommand{}.Key(), &bookingapp.RequestBookingHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxImpl,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.ConfirmBookingCommand{}.Key(), &bookingapp.ConfirmBookingHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxImpl,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.CancelBookingCommand{}.Key(), &bookingapp.CancelBookingHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxImpl,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, hostpricingapp.UpdatePricingCommand{}.Key(), &hostpricingapp.UpdatePricingHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxImpl,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, hostpricingapp.ApplyOverridesCommand{}.Key(), &hostpricingapp.ApplyOverridesHandler{
		UoWFactory: uowFactory,
	})
	commands.RegisterHandler(commandBus, hostpricingapp.ClearOverridesCommand{}.Key(), &hostpricingapp.ClearOverridesHandler{
		UoWFactory: uowFactory,
	})
	commands.RegisterHandler(commandBus, hostpricingapp.CreateSeasonCommand{}.Key(), &hostpricingapp.CreateSeasonHandler{
		UoWFactory: uowFactory,
	})
	commands.RegisterHandler(commandBus, hostpricingapp.DeleteSeasonCommand{}.Key(), &hostpricingapp.DeleteSeasonHandler{
		UoWFactory: uowFactory,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, bookingapp.QuoteStayQuery{}.Key(), &bookingapp.QuoteStayHandler{
		UoWFactory: uowFactory,
	})
	queries.RegisterHandler(queryBus, hostpricingapp.MonthCalendarQuery{}.Key(), &hostpricingapp.MonthCalendarHandler{
		UoWFactory: uowFactory,
	})
	queries.RegisterHandler(queryBus, hostpricingapp.PriceSuggestionQuery{}.Key(), &hostpricingapp.PriceSuggestionHandler{
		Logger:     logger,
		UoWFactory: uowFactory,
	})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Validation(middleware.SelfValidator{}),
		middleware.Idempotency(idStore, nil),
		middleware.Transaction(uowFactory, nil),
		middleware.OutboxFlush(outboxImpl),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	return application{
		handlers: ginserver.Handlers{
			Booking: ginserver.BookingHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
				Logger:   logger,
			},
			HostPricing: ginserver.HostPricingHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
				Logger:   logger,
			},
			IdentityMiddleware: ginserver.IdentityMiddleware{}.Handle,
		},
		worker: worker,
		ready:  ready,
	}, cleanup, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

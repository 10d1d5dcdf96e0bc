package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/pubsub"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"scavngr.io/todolist/config"
	"scavngr.io/todolist/events"
	"scavngr.io/todolist/routes"
	"scavngr.io/todolist/services"
	"scavngr.io/todolist/stores"
	"scavngr.io/todolist/views"
)

const shutdownTimeout = 10 * time.Second

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Err(err).Msg("unable to close store")
		}
	}()

	publisher, closePublisher, err := openPublisher(ctx, cfg)
	if err != nil {
		return err
	}
	defer closePublisher()

	renderer, err := views.New()
	if err != nil {
		return err
	}

	listService := services.NewListService(services.ListServiceOptions{
		Store:     store,
		Publisher: publisher,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           routes.New(listService, renderer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("backend", cfg.Backend).Msg("Server started")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config) (stores.Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return stores.NewMemory(), nil

	case config.BackendFirestore:
		client, err := firestore.NewClient(ctx, cfg.GCPProject)
		if err != nil {
			return nil, fmt.Errorf("unable to init firestore client - %w", err)
		}
		return stores.NewFirestore(client), nil

	case config.BackendMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("unable to init mongo client - %w", err)
		}
		store, err := stores.NewMongo(ctx, client, cfg.MongoDatabase)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func openPublisher(ctx context.Context, cfg *config.Config) (events.Publisher, func(), error) {
	if cfg.PubSubTopic == "" {
		return events.Nop{}, func() {}, nil
	}

	client, err := pubsub.NewClient(ctx, cfg.GCPProject)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to init pubsub client - %w", err)
	}

	publisher, err := events.NewPubSubPublisher(ctx, client, cfg.PubSubTopic)
	if err != nil {
		client.Close()
		return nil, nil, err
	}

	return publisher, func() {
		publisher.Stop()
		if err := client.Close(); err != nil {
			log.Err(err).Msg("unable to close pubsub client")
		}
	}, nil
}

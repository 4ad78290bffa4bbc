package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"reddit/cache"
	"reddit/dao/memory"
	"reddit/dao/mongodb"
	"reddit/database"
	"reddit/events"
	"reddit/handlers"
	"reddit/logger"
	"reddit/logic"
	"reddit/media"
	"reddit/routes"
	"reddit/settings"
	"reddit/websocket"
)

func main() {
	if err := run(); err != nil {
		logger.ErrorWithStack(err)
		logger.Sync()
		fmt.Fprintf(os.Stderr, "reddit: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := settings.Load(".env")
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logger, !cfg.Release()); err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Release() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := handlers.InitTrans(cfg.Server.Lang); err != nil {
		return errors.Wrap(err, "init validator translations")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, closeStore, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var host media.Host = media.Unconfigured{}
	if cfg.Cloudinary.URL != "" {
		cld, err := media.NewCloudinary(cfg.Cloudinary.URL)
		if err != nil {
			return err
		}
		host = cld
	} else {
		logger.Warnf("CLOUDINARY_URL is not set, uploads will fail")
	}

	stager, err := media.NewStager(cfg.Media.StagingDir)
	if err != nil {
		return err
	}

	recent, rdb, err := cache.New(ctx, cfg.Cache, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)

	sinks := []events.Sink{hub}
	if cfg.NATS.URL != "" {
		ns, err := events.ConnectNATS(cfg.NATS.URL)
		if err != nil {
			return err
		}
		defer ns.Close()
		sinks = append(sinks, ns)
		logger.Infof("Publishing events to NATS at %s", cfg.NATS.URL)
	}
	dispatcher, err := events.NewDispatcher(cfg.Events.Workers, sinks...)
	if err != nil {
		return err
	}
	defer dispatcher.Close()

	svc := logic.New(logic.Deps{
		Stores:      stores,
		Host:        host,
		Cache:       recent,
		Events:      dispatcher,
		Media:       cfg.Media,
		RecentLimit: cfg.Posts.RecentLimit,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      routes.Setup(cfg, svc, stager, hub),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("Server running on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return errors.Wrap(err, "listen")
		}
		return nil
	case <-ctx.Done():
	}

	logger.Infof("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Forced shutdown: %v", err)
	}
	logger.Infof("Server stopped gracefully")
	return nil
}

// openStores connects the configured backend. The returned func releases it.
func openStores(ctx context.Context, cfg *settings.Config) (logic.Stores, func(), error) {
	if cfg.Store.Driver == "memory" {
		logger.Warnf("Using the in-memory store, data is lost on restart")
		mem := memory.New()
		return logic.Stores{
			Users:       mem.Users(),
			Communities: mem.Communities(),
			Posts:       mem.Posts(),
			Comments:    mem.Comments(),
			Votes:       mem.Votes(),
			Refs:        mem.Refs(),
			Tx:          database.NewTxRunner(nil, false),
		}, func() {}, nil
	}

	db, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		return logic.Stores{}, nil, err
	}
	closeDB := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Disconnect(ctx); err != nil {
			logger.Errorf("MongoDB disconnect: %v", err)
		}
	}
	if err := db.EnsureIndexes(ctx); err != nil {
		closeDB()
		return logic.Stores{}, nil, err
	}
	return logic.Stores{
		Users:       mongodb.NewUserDAO(db),
		Communities: mongodb.NewCommunityDAO(db),
		Posts:       mongodb.NewPostDAO(db),
		Comments:    mongodb.NewCommentDAO(db),
		Votes:       mongodb.NewVoteDAO(db),
		Refs:        mongodb.NewRefDAO(db),
		Tx:          database.NewTxRunner(db.Client, cfg.Mongo.Transactions),
	}, closeDB, nil
}

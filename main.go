package main

import (
	"context"
	"drant/app/client/prediction"
	"drant/app/config"
	"drant/app/service/dialog"
	"drant/app/service/facts"
	"drant/app/service/webhook"
	"drant/app/util/mylog"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, prediction.NewClient)
	do.Provide(di, facts.New)
	do.Provide(di, dialog.New)
	do.Provide(di, webhook.New)

	server := do.MustInvoke[*webhook.Service](di)

	slog.Info("Service started",
		"backend", cfg.Session.Backend,
		"prediction", cfg.Prediction.BaseURL,
		mylog.AlertKey, true,
	)

	group, groupCtx := errgroup.WithContext(appCtx)

	group.Go(server.Run)

	group.Go(func() error {
		<-groupCtx.Done()

		log.Info("Shutting down...")

		return server.Shutdown()
	})

	if err = group.Wait(); err != nil {
		slog.Error("Service stopped", "error", err)
	}
}

package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-import/api"
	"github.com/carson-networks/budget-import/internal/config"
	"github.com/carson-networks/budget-import/internal/logging"
	"github.com/carson-networks/budget-import/internal/operator"
	"github.com/carson-networks/budget-import/internal/service"
	"github.com/carson-networks/budget-import/internal/storage"
)

func main() {
	logger := logging.SetupLogging()
	logrus.Info("budget-import ledger starting")

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	dbStorage, err := storage.NewStorage(envConfig)
	if err != nil {
		logrus.WithError(err).Fatal("storage.NewStorage")
		return
	}
	defer dbStorage.Close()

	svc := service.NewService(dbStorage.Reader)

	op := operator.NewOperatorDelegator(dbStorage, envConfig.OperatorWorkers, logger)
	op.Start()
	defer op.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpRest := api.Rest{
		Logger:         logger,
		Port:           envConfig.HTTPPort,
		Service:        svc,
		Operator:       op,
		Database:       dbStorage,
		MaxUploadBytes: envConfig.MaxUploadBytes,
	}
	httpRest.Serve(ctx)
}

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-import/internal/handlers/v1/account"
	"github.com/carson-networks/budget-import/internal/handlers/v1/importing"
	"github.com/carson-networks/budget-import/internal/handlers/v1/status"
	"github.com/carson-networks/budget-import/internal/handlers/v1/transaction"
	"github.com/carson-networks/budget-import/internal/logging"
	"github.com/carson-networks/budget-import/internal/operator/actions"
	"github.com/carson-networks/budget-import/internal/service"
)

const shutdownTimeout = 10 * time.Second

// ActionProcessor runs write actions through the operator.
type ActionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Pinger reports database health for /status.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Rest struct {
	Logger         *logrus.Logger
	Port           string
	Service        *service.Service
	Operator       ActionProcessor
	Database       Pinger
	MaxUploadBytes int64
}

// Handler builds the router with every endpoint registered.
func (r *Rest) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	statusHandler := status.NewHandler(r.Database)
	router.Get("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	config := huma.DefaultConfig("Budget Import API", "1.0.0")
	api := humachi.New(router, config)
	api.UseMiddleware(logging.Middleware(r.Logger))

	account.NewListAccountsHandler(r.Service.Account).Register(api)
	account.NewGetAccountHandler(r.Service.Account).Register(api)
	account.NewCreateAccountHandler(r.Operator).Register(api)

	transaction.NewListTransactionsHandler(r.Service.Transaction).Register(api)
	transaction.NewGetTransactionHandler(r.Service.Transaction).Register(api)
	transaction.NewUpdateCategoryHandler(r.Operator).Register(api)
	transaction.NewCategoryBreakdownHandler(r.Service.Transaction).Register(api)

	importing.NewPreviewTransactionsHandler(r.Service.Statement, r.MaxUploadBytes).Register(api)
	importing.NewImportTransactionsHandler(r.Operator).Register(api)

	return router
}

// Serve listens until ctx is cancelled, then drains in-flight requests.
func (r *Rest) Serve(ctx context.Context) {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Handler(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			r.Logger.WithError(err).Error("HttpServer.Serve.shutdown error")
		}
	}()

	r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}

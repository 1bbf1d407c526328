package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/vehicleplan-backend/internal/adapter/grpc"
	httpadapter "github.com/simaogato/vehicleplan-backend/internal/adapter/http"
	"github.com/simaogato/vehicleplan-backend/internal/app"
	"github.com/simaogato/vehicleplan-backend/internal/config"
)

func main() {
	// 1. Load configuration and logger
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	logger := app.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// 2. Wire repositories and services
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	if err := a.SeedDefaultUser(ctx); err != nil {
		logger.Fatalf("Failed to seed default user: %v", err)
	}
	logger.WithField("data_source", cfg.DataSource).Info("Services initialized")

	// 3. Promotion watcher
	if a.Watcher != nil {
		if err := a.Watcher.Start(ctx); err != nil {
			logger.Fatalf("Failed to start promotion watcher: %v", err)
		}
	}

	// 4. gRPC server
	grpcServer := grpclib.NewServer(
		grpclib.UnaryInterceptor(grpcadapter.AuthInterceptor(a.Auth, grpcadapter.LoginMethod)),
	)
	grpcadapter.RegisterProjectionServiceServer(grpcServer, grpcadapter.NewServer(a.Projection, a.Auth))
	reflection.Register(grpcServer)

	grpcAddr := fmt.Sprintf(":%s", cfg.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		logger.Fatalf("Failed to listen on %s: %v", grpcAddr, err)
	}
	go func() {
		logger.Infof("gRPC server listening on %s", grpcAddr)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Fatalf("Failed to serve gRPC server: %v", err)
		}
	}()

	// 5. HTTP server
	handler := httpadapter.NewHandler(a.Projection, a.Auth, logger)
	httpAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	httpServer := &http.Server{
		Addr:         httpAddr,
		Handler:      handler.Router(a.Metrics.Handler()),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("HTTP server listening on %s", httpAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Graceful shutdown
	waitForShutdown(ctx, logger, grpcServer, httpServer)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down both servers
func waitForShutdown(ctx context.Context, logger *logrus.Logger, grpcServer *grpclib.Server, httpServer *http.Server) {
	<-ctx.Done()
	logger.Info("Received shutdown signal. Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("HTTP server shutdown failed")
	}

	grpcServer.GracefulStop()
	logger.Info("Servers stopped")
}

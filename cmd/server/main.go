package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/fetchbar/api"
	"github.com/yourusername/fetchbar/internal/app"
	"github.com/yourusername/fetchbar/pkg/logger"
	"github.com/yourusername/fetchbar/web"
)

var configPath = flag.String("config", "", "Path to config file")

func main() {
	flag.Parse()

	config, err := app.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(config.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Lifecycle events go to transfer-YYYYMMDD.log and error-YYYYMMDD.log
	multiLog, err := logger.NewMultiLogger(logger.MultiLoggerConfig{
		Level:   config.Logging.Level,
		LogsDir: config.Server.LogsDir,
	})
	if err != nil {
		log.Fatal("Failed to initialize multi logger", zap.Error(err))
	}
	defer multiLog.Close()

	log.Info("Starting fetchbar server",
		zap.String("version", api.Version),
		zap.String("host", config.Server.Host),
		zap.Int("port", config.Server.Port),
		zap.String("target", config.Transfer.TargetURL()),
		zap.String("strategy", string(config.Transfer.Strategy)))

	manager, closeHistory, err := app.NewManager(config, log)
	if err != nil {
		log.Fatal("Failed to initialize transfer manager", zap.Error(err))
	}
	defer closeHistory()
	manager.SetEventLogger(multiLog)

	if config.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.SetupRouter(manager, api.RouterOptions{
		DefaultStrategy: config.Transfer.Strategy,
		LogsDir:         config.Server.LogsDir,
		StaticFS:        web.GetStaticFS(),
		Logger:          log,
		Events:          multiLog,
	})

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// In-flight transfers end as cancelled before the listener closes
	manager.Shutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

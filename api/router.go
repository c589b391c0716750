package api

import (
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/fetchbar/api/handlers"
	"github.com/yourusername/fetchbar/api/middleware"
	"github.com/yourusername/fetchbar/internal/app"
	"github.com/yourusername/fetchbar/internal/domain"
	"github.com/yourusername/fetchbar/pkg/logger"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// RouterOptions holds what the router needs besides the transfer manager
type RouterOptions struct {
	DefaultStrategy domain.Strategy
	LogsDir         string // empty disables the log endpoints
	StaticFS        fs.FS  // page assets, index.html at the root
	Logger          *zap.Logger
	Events          *logger.MultiLogger // receives recovered panics; may be nil
}

// SetupRouter sets up the HTTP router
func SetupRouter(manager *app.TransferManager, opts RouterOptions) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log, opts.Events))
	router.Use(middleware.CORS())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(manager, Version)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		transferHandler := handlers.NewTransferHandler(manager, opts.DefaultStrategy, log)
		transfers := v1.Group("/transfers")
		{
			transfers.POST("", transferHandler.StartTransfer)
			transfers.GET("", transferHandler.ListTransfers)
			transfers.GET("/stats", transferHandler.GetStats)
			transfers.GET("/:id", transferHandler.GetTransfer)
			transfers.POST("/:id/cancel", transferHandler.CancelTransfer)
			transfers.DELETE("/:id", transferHandler.DeleteTransfer)
		}

		if opts.LogsDir != "" {
			logHandler := handlers.NewLogHandler(opts.LogsDir)
			logs := v1.Group("/logs")
			{
				logs.GET("/categories", logHandler.GetCategories)
				logs.GET("/:category", logHandler.GetLogs)
			}
		}
	}

	// Progress stream for the page
	wsHandler := handlers.NewProgressWebSocketHandler(manager, opts.DefaultStrategy, log)
	router.GET("/ws/transfers", wsHandler.HandleWebSocket)

	if opts.StaticFS != nil {
		router.GET("/", func(c *gin.Context) {
			serveFile(c, opts.StaticFS, "index.html")
		})
		router.GET("/static/*filepath", func(c *gin.Context) {
			serveFile(c, opts.StaticFS, strings.TrimPrefix(c.Param("filepath"), "/"))
		})
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router
}

// serveFile serves a file from the embedded filesystem with proper content type
func serveFile(c *gin.Context, staticFS fs.FS, filePath string) {
	file, err := staticFS.Open(filePath)
	if err != nil {
		c.String(http.StatusNotFound, "File not found: %v", err)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to read file: %v", err)
		return
	}

	c.Data(http.StatusOK, contentType(filePath), content)
}

func contentType(filePath string) string {
	switch path.Ext(filePath) {
	case ".html":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "application/javascript; charset=utf-8"
	case ".json":
		return "application/json; charset=utf-8"
	case ".svg":
		return "image/svg+xml"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

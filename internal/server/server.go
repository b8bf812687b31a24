package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskmaster/internal/auth"
	"taskmaster/internal/logging"
	"taskmaster/internal/models"
)

// Store is the persistence the HTTP layer depends on.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, name, email, passwordHash string) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)

	ListTasks(ctx context.Context, userID int64, status models.Status) ([]models.Task, error)
	GetTask(ctx context.Context, id, userID int64) (models.Task, error)
	CreateTask(ctx context.Context, userID int64, description string) (int64, error)
	UpdateDescription(ctx context.Context, id, userID int64, description string) (int64, error)
	UpdateStatus(ctx context.Context, id, userID int64, to models.Status, from ...models.Status) (int64, error)
	ClearTasks(ctx context.Context, userID int64) (int64, error)
}

// Options tune the HTTP server.
type Options struct {
	// StaticDir, when it holds an index.html, replaces the embedded UI.
	StaticDir string
	// StrictTransitions rejects status changes the task state machine forbids.
	StrictTransitions bool
	// CORSOrigins enables CORS for the listed origins; "*" allows any.
	CORSOrigins []string
	// Hasher hashes passwords. Defaults to bcrypt.DefaultCost.
	Hasher *auth.Hasher
}

// Server provides HTTP handlers for the to-do application.
type Server struct {
	engine *gin.Engine
	store  Store
	logger *slog.Logger
	hasher *auth.Hasher
	opts   Options
}

// New constructs the HTTP server with routes and middleware configured.
func New(store Store, logger *slog.Logger, opts Options) (*Server, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	hasher := opts.Hasher
	if hasher == nil {
		var err error
		if hasher, err = auth.NewHasher(0); err != nil {
			return nil, err
		}
	}

	if err := registerValidators(); err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(logger, "/healthz"))
	if len(opts.CORSOrigins) > 0 {
		router.Use(corsMiddleware(opts.CORSOrigins))
	}

	srv := &Server{
		engine: router,
		store:  store,
		logger: logger,
		hasher: hasher,
		opts:   opts,
	}

	srv.registerRoutes()
	return srv, nil
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	s.engine.POST("/signup", s.handleSignup)
	s.engine.POST("/login", s.handleLogin)

	tasks := s.engine.Group("/tasks")
	{
		tasks.GET("", s.handleListTasks)
		tasks.POST("", s.handleCreateTask)
		tasks.DELETE("/clear", s.handleClearTasks)
		tasks.PUT("/:id", s.handleUpdateTask)
		tasks.PATCH("/:id/status", s.handleUpdateStatus)
	}

	s.mountStatic()

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})
}

// handleHealth reports whether the store is reachable.
func (s *Server) handleHealth(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		s.respondError(c, http.StatusServiceUnavailable, "database unavailable", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseID converts a path parameter to int64 with error handling.
func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return 0, false
	}
	return id, true
}

// respondError logs the underlying error and returns msg to the client.
// Server side failures are logged at error level, client mistakes at debug.
func (s *Server) respondError(c *gin.Context, status int, msg string, err error) {
	if err != nil {
		attrs := []any{
			slog.String("path", c.FullPath()),
			slog.String("request_id", c.GetString(requestIDKey)),
			slog.String("error", err.Error()),
		}
		if status >= http.StatusInternalServerError {
			s.logger.Error("request failed", attrs...)
		} else {
			s.logger.Debug("request rejected", attrs...)
		}
	}
	c.JSON(status, gin.H{"error": msg})
}

// respondSuccess writes payload as JSON, or only the status when it is nil.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}

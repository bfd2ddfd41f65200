package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/tms/backend/internal/infrastructure/auth"
	"github.com/tms/backend/internal/infrastructure/config"
	"github.com/tms/backend/internal/infrastructure/logger"
	"github.com/tms/backend/internal/interfaces/http/handler"
	"github.com/tms/backend/internal/interfaces/http/middleware"
)

// Dependencies carries everything the router needs to register routes
type Dependencies struct {
	Config      *config.Config
	Logger      *zap.Logger
	JWTService  *auth.JWTService
	Claims      *handler.ClaimHandler
	Resolution  *handler.ResolutionHandler
	Subrogation *handler.SubrogationHandler
	Attachment  *handler.AttachmentHandler
	// HealthCheck reports readiness of downstream dependencies. Nil means
	// the health endpoint only confirms the process is serving.
	HealthCheck func() error
}

// New builds the gin engine with the full middleware chain and all
// claim routes registered
func New(deps Dependencies) (*gin.Engine, error) {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(deps.Config.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(deps.Logger))
	engine.Use(logger.Recovery(deps.Logger))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSFromHTTPConfig(&deps.Config.HTTP)))
	engine.Use(middleware.BodyLimit(deps.Config.HTTP.MaxBodySize))
	if deps.Config.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(deps.Config.Telemetry.ServiceName))
	}

	engine.GET("/health", healthHandler(deps))

	api := engine.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: deps.JWTService,
		Logger:     deps.Logger,
	}))

	registerClaimRoutes(api, deps)

	return engine, nil
}

func registerClaimRoutes(api *gin.RouterGroup, deps Dependencies) {
	claims := api.Group("/claims")

	claims.POST("", deps.Claims.Create)
	claims.GET("", deps.Claims.List)
	claims.GET("/:id", deps.Claims.Get)
	claims.GET("/:id/detail", deps.Claims.GetDetail)
	claims.GET("/:id/timeline", deps.Claims.Timeline)
	claims.PUT("/:id", deps.Claims.Update)
	claims.DELETE("/:id", deps.Claims.Delete)
	claims.POST("/:id/file", deps.Claims.File)
	claims.POST("/:id/assign", deps.Claims.Assign)
	claims.POST("/:id/status", deps.Claims.UpdateStatus)

	claims.POST("/:id/approve", deps.Resolution.Approve)
	claims.POST("/:id/deny", deps.Resolution.Deny)
	claims.POST("/:id/pay", deps.Resolution.Pay)
	claims.POST("/:id/close", deps.Resolution.Close)
	claims.PUT("/:id/investigation", deps.Resolution.UpdateInvestigation)
	claims.GET("/:id/adjustments", deps.Resolution.ListAdjustments)
	claims.POST("/:id/adjustments", deps.Resolution.AddAdjustment)
	claims.DELETE("/:id/adjustments/:adjustmentId", deps.Resolution.RemoveAdjustment)

	claims.GET("/:id/items", deps.Attachment.ListItems)
	claims.POST("/:id/items", deps.Attachment.AddItem)
	claims.GET("/:id/items/:itemId", deps.Attachment.GetItem)
	claims.PUT("/:id/items/:itemId", deps.Attachment.UpdateItem)
	claims.DELETE("/:id/items/:itemId", deps.Attachment.RemoveItem)

	claims.GET("/:id/documents", deps.Attachment.ListDocuments)
	claims.POST("/:id/documents", deps.Attachment.AddDocument)
	claims.GET("/:id/documents/:documentId", deps.Attachment.GetDocument)
	claims.DELETE("/:id/documents/:documentId", deps.Attachment.RemoveDocument)

	claims.GET("/:id/notes", deps.Attachment.ListNotes)
	claims.POST("/:id/notes", deps.Attachment.AddNote)
	claims.DELETE("/:id/notes/:noteId", deps.Attachment.RemoveNote)

	claims.GET("/:id/subrogations", deps.Subrogation.List)
	claims.POST("/:id/subrogations", deps.Subrogation.Create)
	claims.GET("/:id/subrogations/:subrogationId", deps.Subrogation.Get)
	claims.PUT("/:id/subrogations/:subrogationId", deps.Subrogation.Update)
	claims.POST("/:id/subrogations/:subrogationId/recover", deps.Subrogation.Recover)
	claims.DELETE("/:id/subrogations/:subrogationId", deps.Subrogation.Remove)
}

func healthHandler(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK
		if deps.HealthCheck != nil {
			if err := deps.HealthCheck(); err != nil {
				status = "degraded"
				code = http.StatusServiceUnavailable
				logger.FromContext(c.Request.Context()).Warn("health check failed", zap.Error(err))
			}
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": deps.Config.App.Name,
			"env":     deps.Config.App.Env,
		})
	}
}

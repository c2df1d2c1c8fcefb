package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/healthmate-pk/healthmate-api/internal/config"
	"github.com/healthmate-pk/healthmate-api/internal/middleware"
	"github.com/healthmate-pk/healthmate-api/pkg/auth"
	"github.com/healthmate-pk/healthmate-api/pkg/metrics"
)

type RouterDeps struct {
	Config     *config.Config
	Log        *zap.Logger
	Metrics    *metrics.Collector
	JWTManager *auth.JWTManager
	DB         *gorm.DB

	Auth     *AuthHandler
	Vitals   *VitalsHandler
	Reports  *ReportHandler
	Family   *FamilyHandler
	Timeline *TimelineHandler
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(deps.Log, deps.Metrics))
	r.Use(middleware.CORS(deps.Config.CORS))

	globalLimiter := middleware.NewRateLimiter(
		deps.Config.RateLimit.RequestsPerSecond,
		deps.Config.RateLimit.BurstSize,
	)
	r.Use(globalLimiter.Middleware())

	r.GET("/healthz", healthz(deps))
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api")
	authenticated := middleware.Authenticate(deps.JWTManager)

	authLimiter := middleware.NewAuthRateLimiter(deps.Config.RateLimit.AuthRequestsPerMinute)
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authLimiter.Middleware(), deps.Auth.Register)
		authGroup.POST("/login", authLimiter.Middleware(), deps.Auth.Login)
		authGroup.POST("/refresh", authLimiter.Middleware(), deps.Auth.Refresh)
		authGroup.GET("/profile", authenticated, deps.Auth.GetProfile)
		authGroup.PUT("/profile", authenticated, deps.Auth.UpdateProfile)
	}

	vitalsGroup := api.Group("/vitals", authenticated)
	{
		vitalsGroup.POST("", deps.Vitals.Create)
		vitalsGroup.GET("", deps.Vitals.List)
		vitalsGroup.GET("/stats", deps.Vitals.Stats)
		vitalsGroup.GET("/:id", deps.Vitals.Get)
		vitalsGroup.PUT("/:id", deps.Vitals.Update)
		vitalsGroup.DELETE("/:id", deps.Vitals.Delete)
	}

	filesGroup := api.Group("/files", authenticated)
	{
		filesGroup.POST("/upload", deps.Reports.Upload)
		filesGroup.GET("/reports", deps.Reports.List)
		filesGroup.GET("/reports/:id", deps.Reports.Get)
		filesGroup.DELETE("/reports/:id", deps.Reports.Delete)
		filesGroup.POST("/reports/:id/analyze", deps.Reports.RetryAnalysis)
	}

	familyGroup := api.Group("/family", authenticated)
	{
		familyGroup.POST("", deps.Family.Create)
		familyGroup.GET("", deps.Family.List)
		familyGroup.GET("/overview", deps.Family.Overview)
		familyGroup.GET("/:id", deps.Family.Get)
		familyGroup.PUT("/:id", deps.Family.Update)
		familyGroup.DELETE("/:id", deps.Family.Delete)
		familyGroup.GET("/:id/health-summary", deps.Family.HealthSummary)
	}

	timelineGroup := api.Group("/timeline", authenticated)
	{
		timelineGroup.GET("", deps.Timeline.Timeline)
		timelineGroup.GET("/dashboard", deps.Timeline.Dashboard)
	}

	return r
}

// healthz reports liveness plus database reachability.
func healthz(deps RouterDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		httpStatus := http.StatusOK

		if sqlDB, err := deps.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		} else {
			stats := sqlDB.Stats()
			deps.Metrics.DBConnections.Set(float64(stats.OpenConnections))
		}

		c.JSON(httpStatus, gin.H{
			"status":  status,
			"service": deps.Config.App.Name,
			"version": deps.Config.App.Version,
		})
	}
}

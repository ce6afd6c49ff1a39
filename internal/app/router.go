package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/suke199800/tree/internal/logging"
	"github.com/suke199800/tree/internal/metrics"
)

type RouterConfig struct {
	Schools     *SchoolHandler
	StaticDir   string
	CORSOrigins []string
	Log         *zap.SugaredLogger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logging.Nop().Sugar
	}

	r := gin.New()
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(Metrics())
	r.Use(Recovery(log))
	r.Use(CORS(cfg.CORSOrigins))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	if cfg.Schools != nil {
		api.GET("/schools", cfg.Schools.ListSchools)
		api.GET("/schools/:id/posts", cfg.Schools.ListPosts)
		api.POST("/schools/:id/posts", cfg.Schools.AddPost)
		api.GET("/export/schools.xlsx", cfg.Schools.ExportLeaderboard)
	}

	if cfg.StaticDir != "" {
		r.NoRoute(StaticHandler(cfg.StaticDir))
	} else {
		r.NoRoute(func(c *gin.Context) { c.JSON(http.StatusNotFound, gin.H{"error": "Not found"}) })
	}
	return r
}

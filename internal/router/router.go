package router

import (
	"net/http"

	docs "wanderlust/cmd/docs"
	"wanderlust/config"
	"wanderlust/internal/middleware"
	"wanderlust/internal/pkg/response"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var ProviderSet = wire.NewSet(
	NewRouter,
	NewHealthRouter,
	NewAuthRouter,
	NewAdminRouter,
	NewCatalogRouter,
)

// 透過依賴注入將 middleware 與各路由群組掛到同一個 gin.Engine
func NewRouter(
	config *config.Configuration,
	traceEntry *middleware.TraceEntry,
	recovery *middleware.Recovery,
	cors *middleware.Cors,
	logger *middleware.Logger,
	responseMiddleware *middleware.Response,
	decompress *middleware.Decompress,
	healthRouter *HealthRouter,
	authRouter *AuthRouter,
	adminRouter *AdminRouter,
	catalogRouter *CatalogRouter,
) *gin.Engine {

	switch config.App.Env {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(traceEntry.Handler())
	router.Use(logger.LoggerHandler())
	router.Use(cors.CorsHandler())
	router.Use(recovery.ErrorHandler())
	router.Use(responseMiddleware.FormatHandler())
	// 解壓錯誤需經 Recovery 輸出，放在最後
	router.Use(decompress.Handler())
	router.Use(func(c *gin.Context) {
		if v := config.App.Version; v != "" {
			c.Writer.Header().Set("X-App-Version", v)
		}
		c.Next()
	})

	router.GET("/health-check", func(c *gin.Context) {
		c.JSON(http.StatusOK, response.Response{
			Success:     true,
			Code:        0,
			Data:        "ok",
			Message:     "success",
			Description: "service is alive",
		})
		c.Abort()
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if config.App.SwaggerEnabled {
		router.GET("/swagger/*any", func(c *gin.Context) {
			docs.SwaggerInfo.Host = c.Request.Host

			if config.App.Env == "production" {
				docs.SwaggerInfo.Schemes = []string{"https"}
				if config.App.BasePath != "" {
					docs.SwaggerInfo.BasePath = config.App.BasePath
				}
			}
		}, ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	healthRouter.RegisterHealthRoutes(router)
	authRouter.RegisterRoutes(router)
	adminRouter.RegisterRoutes(router)
	catalogRouter.RegisterRoutes(router)
	pprof.Register(router)
	return router
}

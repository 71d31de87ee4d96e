package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"tip-core/internal/handler"
	"tip-core/internal/handler/response"
	"tip-core/pkg/monitor"
	"tip-core/pkg/validator"
)

// Handlers 路由依赖的业务处理器
type Handlers struct {
	Tip *handler.TipHandler
	QR  *handler.QRHandler
}

// NewHTTPRouter 初始化并返回一个 Gin Engine
func NewHTTPRouter(h Handlers) *gin.Engine {
	// 0. 初始化监控指标与自定义校验
	monitor.Init()
	validator.Init()

	// 1. 创建 Engine (使用默认中间件: Logger, Recovery)
	r := gin.Default()

	// 2. 注册通用中间件
	r.Use(monitor.PrometheusMiddleware())

	// 3. 注册基础路由
	r.GET("/health", handler.HealthCheck)
	r.GET("/metrics", monitor.Handler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 4. 注册 API 路由组
	api := r.Group("/api/v1")
	{
		api.GET("/ping", func(c *gin.Context) {
			response.Success(c, gin.H{"pong": true})
		})
		api.GET("/chains", handler.ListChains)

		tips := api.Group("/tips")
		{
			tips.POST("/crypto", h.Tip.SubmitCryptoTip)
			tips.GET("/:tx_hash", h.Tip.GetTip)
		}

		api.GET("/qr/:code", h.QR.GetTarget)
	}

	return r
}

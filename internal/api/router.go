package api

import (
	"github.com/gin-gonic/gin"

	"github.com/alphaowl/premium_go_server/config"
	"github.com/alphaowl/premium_go_server/internal/api/handler"
	"github.com/alphaowl/premium_go_server/internal/api/middleware"
)

type Router struct {
	checkoutHandler  *handler.CheckoutHandler
	paymentHandler   *handler.PaymentHandler
	premiumHandler   *handler.PremiumHandler
	adminHandler     *handler.AdminHandler
	websocketHandler *handler.WebSocketHandler
	cfg              *config.Config
}

func NewRouter(
	checkoutHandler *handler.CheckoutHandler,
	paymentHandler *handler.PaymentHandler,
	premiumHandler *handler.PremiumHandler,
	adminHandler *handler.AdminHandler,
	websocketHandler *handler.WebSocketHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		checkoutHandler:  checkoutHandler,
		paymentHandler:   paymentHandler,
		premiumHandler:   premiumHandler,
		adminHandler:     adminHandler,
		websocketHandler: websocketHandler,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// 公开接口 - 支付向导
		checkout := api.Group("/checkout/sessions")
		{
			checkout.POST("", r.checkoutHandler.Start)
			checkout.GET("/:id", r.checkoutHandler.Get)
			checkout.POST("/:id/plan", r.checkoutHandler.SelectPlan)
			checkout.POST("/:id/chain", r.checkoutHandler.SelectChain)
			checkout.POST("/:id/change-chain", r.checkoutHandler.ChangeChain)
			checkout.POST("/:id/confirm", r.checkoutHandler.ConfirmPaid)
			checkout.POST("/:id/submit", r.checkoutHandler.Submit)
			checkout.DELETE("/:id", r.checkoutHandler.Abandon)
		}

		// 公开接口 - 支付申报与会员状态
		api.POST("/payments", r.paymentHandler.Submit)
		api.POST("/payments/:id/proof", r.paymentHandler.UploadProof)
		api.GET("/premium/status", r.premiumHandler.Status)

		// 后台 - 登录与实时推送（WebSocket 的 token 走 query 参数）
		api.POST("/admin/login", r.adminHandler.Login)
		api.GET("/admin/ws", r.websocketHandler.Handle)

		// 后台 - 对账（需要认证）
		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuth(r.cfg.JWT.Secret))
		{
			admin.GET("/payments", r.adminHandler.ListPayments)
			admin.GET("/payments/:id", r.adminHandler.GetPayment)
			admin.POST("/payments/:id/verify", r.adminHandler.Verify)
			admin.POST("/payments/:id/reject", r.adminHandler.Reject)
		}
	}

	return engine
}

package handler

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/alphaowl/premium_go_server/internal/model/dto"
	"github.com/alphaowl/premium_go_server/internal/pkg/response"
	"github.com/alphaowl/premium_go_server/internal/repository"
	"github.com/alphaowl/premium_go_server/internal/service"
)

// CheckoutHandler 支付向导接口
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Start 创建向导会话
// POST /api/v1/checkout/sessions
func (h *CheckoutHandler) Start(c *gin.Context) {
	resp, err := h.checkoutService.Start(c.Request.Context())
	if err != nil {
		log.Printf("Failed to start checkout session: %v", err)
		response.ServerError(c, "")
		return
	}
	response.Success(c, resp)
}

// Get 查询会话状态
// GET /api/v1/checkout/sessions/:id
func (h *CheckoutHandler) Get(c *gin.Context) {
	view, err := h.checkoutService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, view)
}

// SelectPlan 选择套餐与计费周期
// POST /api/v1/checkout/sessions/:id/plan
func (h *CheckoutHandler) SelectPlan(c *gin.Context) {
	var req dto.SelectPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	view, err := h.checkoutService.SelectPlan(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, view)
}

// SelectChain 选择支付链
// POST /api/v1/checkout/sessions/:id/chain
func (h *CheckoutHandler) SelectChain(c *gin.Context) {
	var req dto.SelectChainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	view, err := h.checkoutService.SelectChain(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, view)
}

// ChangeChain 退回选链步骤
// POST /api/v1/checkout/sessions/:id/change-chain
func (h *CheckoutHandler) ChangeChain(c *gin.Context) {
	view, err := h.checkoutService.ChangeChain(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, view)
}

// ConfirmPaid 用户确认已转账
// POST /api/v1/checkout/sessions/:id/confirm
func (h *CheckoutHandler) ConfirmPaid(c *gin.Context) {
	view, err := h.checkoutService.ConfirmPaid(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, view)
}

// Submit 确认联系方式并提交支付申报
// POST /api/v1/checkout/sessions/:id/submit
func (h *CheckoutHandler) Submit(c *gin.Context) {
	var req dto.CheckoutSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	view, err := h.checkoutService.Submit(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "payment submitted, pending manual review", view)
}

// Abandon 放弃向导
// DELETE /api/v1/checkout/sessions/:id
func (h *CheckoutHandler) Abandon(c *gin.Context) {
	if err := h.checkoutService.Abandon(c.Request.Context(), c.Param("id")); err != nil {
		log.Printf("Failed to abandon checkout session: %v", err)
		response.ServerError(c, "")
		return
	}
	response.Success(c, nil)
}

func (h *CheckoutHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrSessionNotFound):
		response.NotFoundError(c, "checkout session not found or expired")
	case errors.Is(err, service.ErrInvalidTransition):
		response.ConflictError(c, err.Error())
	case errors.Is(err, service.ErrInvalidTier),
		errors.Is(err, service.ErrInvalidCycle),
		errors.Is(err, service.ErrInvalidChain),
		errors.Is(err, service.ErrChainNotConfigured),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrMissingWallet):
		response.ParamError(c, err.Error())
	case errors.Is(err, service.ErrPriceMismatch):
		response.PriceMismatchError(c, err.Error())
	default:
		log.Printf("Checkout error: %v", err)
		response.ServerError(c, "")
	}
}

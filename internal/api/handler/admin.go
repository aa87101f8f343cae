package handler

import (
	"errors"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alphaowl/premium_go_server/internal/api/middleware"
	"github.com/alphaowl/premium_go_server/internal/model/dto"
	"github.com/alphaowl/premium_go_server/internal/pkg/response"
	"github.com/alphaowl/premium_go_server/internal/service"
)

// AdminHandler 后台对账接口
type AdminHandler struct {
	authService      *service.AuthService
	paymentService   *service.PaymentService
	reconcileService *service.ReconcileService
}

func NewAdminHandler(
	authService *service.AuthService,
	paymentService *service.PaymentService,
	reconcileService *service.ReconcileService,
) *AdminHandler {
	return &AdminHandler{
		authService:      authService,
		paymentService:   paymentService,
		reconcileService: reconcileService,
	}
}

// Login 运营登录
// POST /api/v1/admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.AuthError(c, err.Error())
			return
		}
		log.Printf("Admin login failed: %v", err)
		response.ServerError(c, "")
		return
	}

	response.Success(c, resp)
}

// ListPayments 按状态查询支付记录
// GET /api/v1/admin/payments?status=pending
func (h *AdminHandler) ListPayments(c *gin.Context) {
	status := c.DefaultQuery("status", "pending")

	payments, total, err := h.paymentService.ListByStatus(status)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			response.ParamError(c, err.Error())
			return
		}
		log.Printf("Failed to list payments: %v", err)
		response.ServerError(c, "")
		return
	}

	response.SuccessList(c, total, payments)
}

// GetPayment 查询单条支付记录
// GET /api/v1/admin/payments/:id
func (h *AdminHandler) GetPayment(c *gin.Context) {
	paymentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid payment id")
		return
	}

	payment, err := h.paymentService.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			response.NotFoundError(c, "payment not found")
			return
		}
		log.Printf("Failed to get payment %d: %v", paymentID, err)
		response.ServerError(c, "")
		return
	}

	response.Success(c, payment)
}

// Verify 核验支付并激活会员权益
// POST /api/v1/admin/payments/:id/verify
func (h *AdminHandler) Verify(c *gin.Context) {
	paymentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid payment id")
		return
	}

	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	resp, err := h.reconcileService.Verify(paymentID, adminID)
	if err != nil {
		h.handleReviewError(c, paymentID, err)
		return
	}

	response.SuccessWithMessage(c, "payment verified, premium activated", resp)
}

// Reject 驳回支付
// POST /api/v1/admin/payments/:id/reject
func (h *AdminHandler) Reject(c *gin.Context) {
	paymentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid payment id")
		return
	}

	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	resp, err := h.reconcileService.Reject(paymentID, adminID)
	if err != nil {
		h.handleReviewError(c, paymentID, err)
		return
	}

	response.SuccessWithMessage(c, "payment rejected", resp)
}

func (h *AdminHandler) handleReviewError(c *gin.Context, paymentID int64, err error) {
	switch {
	case errors.Is(err, service.ErrPaymentNotFound):
		response.NotFoundError(c, "payment not found")
	case errors.Is(err, service.ErrAlreadyReviewed):
		response.ConflictError(c, err.Error())
	default:
		log.Printf("Failed to review payment %d: %v", paymentID, err)
		response.ServerError(c, "")
	}
}

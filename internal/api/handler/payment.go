package handler

import (
	"errors"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alphaowl/premium_go_server/internal/model/dto"
	"github.com/alphaowl/premium_go_server/internal/pkg/response"
	"github.com/alphaowl/premium_go_server/internal/service"
)

const maxProofSize = 5 << 20 // 凭证截图最大 5MB

// PaymentHandler 支付申报接口
type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Submit 直接提交支付申报（不经过向导会话）
// POST /api/v1/payments
func (h *PaymentHandler) Submit(c *gin.Context) {
	var req dto.SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	payment, err := h.paymentService.Submit(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail),
			errors.Is(err, service.ErrMissingWallet),
			errors.Is(err, service.ErrInvalidTier),
			errors.Is(err, service.ErrInvalidCycle),
			errors.Is(err, service.ErrInvalidChain),
			errors.Is(err, service.ErrChainNotConfigured):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrPriceMismatch):
			response.PriceMismatchError(c, err.Error())
		default:
			log.Printf("Failed to submit payment: %v", err)
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "payment submitted, pending manual review", dto.SubmitPaymentResponse{
		PaymentID: payment.ID,
		Status:    payment.Status,
	})
}

// UploadProof 上传转账凭证截图
// POST /api/v1/payments/:id/proof
func (h *PaymentHandler) UploadProof(c *gin.Context) {
	paymentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid payment id")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.ParamError(c, "proof file is required")
		return
	}
	if fileHeader.Size > maxProofSize {
		response.ParamError(c, "proof file exceeds 5MB limit")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp":
	default:
		response.ParamError(c, "only png/jpg/jpeg/webp images are accepted")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	proofURL, err := h.paymentService.AttachProof(paymentID, data, ext)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			response.NotFoundError(c, "payment not found")
		case errors.Is(err, service.ErrPaymentNotPending):
			response.ConflictError(c, err.Error())
		case errors.Is(err, service.ErrProofStorageOff):
			response.Error(c, response.CodeServerError, err.Error())
		default:
			log.Printf("Failed to attach proof for payment %d: %v", paymentID, err)
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, dto.UploadProofResponse{
		PaymentID: paymentID,
		ProofURL:  proofURL,
	})
}

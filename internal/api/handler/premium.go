package handler

import (
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alphaowl/premium_go_server/internal/pkg/response"
	"github.com/alphaowl/premium_go_server/internal/service"
)

// PremiumHandler 会员状态查询接口
type PremiumHandler struct {
	premiumService *service.PremiumService
}

func NewPremiumHandler(premiumService *service.PremiumService) *PremiumHandler {
	return &PremiumHandler{premiumService: premiumService}
}

// Status 查询会员状态
// GET /api/v1/premium/status?email=xxx
func (h *PremiumHandler) Status(c *gin.Context) {
	email := strings.TrimSpace(strings.ToLower(c.Query("email")))
	if email == "" || !strings.Contains(email, "@") {
		response.ParamError(c, "valid email is required")
		return
	}

	status, err := h.premiumService.GetStatus(email)
	if err != nil {
		log.Printf("Failed to query premium status: %v", err)
		response.ServerError(c, "")
		return
	}

	response.Success(c, status)
}

package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/alphaowl/premium_go_server/config"
	"github.com/alphaowl/premium_go_server/internal/api/middleware"
	"github.com/alphaowl/premium_go_server/internal/model"
	"github.com/alphaowl/premium_go_server/internal/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testContext struct {
	DB *gorm.DB
}

// parseResponse 解析统一响应结构
func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *response.Response {
	t.Helper()

	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Failed to parse response: %s", w.Body.String())

	return &resp
}

// asAdmin 免登录注入运营账号 ID（只测 handler 逻辑，认证中间件单独覆盖）
func asAdmin(adminID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.AdminIDKey, adminID)
		c.Next()
	}
}

// newMultipartProof 构造带单个 file 字段的 multipart 请求体，返回 Content-Type
func newMultipartProof(t *testing.T, buf *bytes.Buffer, filename string, data []byte) string {
	t.Helper()

	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return writer.FormDataContentType()
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func newHandlerTestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:      "handler-test-secret",
			ExpireHours: 24,
		},
		Chains: []config.ChainConfig{
			{Name: model.ChainSolanaSPL, DisplayName: "Solana (SPL)", DepositAddress: "So1anaDepositAddr11111111111111111111111111", Token: "USDC"},
			{Name: model.ChainBase, DisplayName: "Base", DepositAddress: "0xBa5eDepositAddress00000000000000000000001", Token: "USDC"},
			{Name: model.ChainArbitrum, DisplayName: "Arbitrum", DepositAddress: "0xA4b1DepositAddress00000000000000000000001", Token: "USDC"},
		},
		Checkout: config.CheckoutConfig{
			SessionTTLMinutes: 30,
			QRSize:            128,
		},
	}
}

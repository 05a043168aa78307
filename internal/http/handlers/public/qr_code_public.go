package public

import (
	"errors"
	"fmt"
	"strings"

	"github.com/loyalty-next/internal/http/response"
	"github.com/loyalty-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ScanQRCodeRequest 扫码请求
type ScanQRCodeRequest struct {
	Fingerprint string `json:"fingerprint"`
}

// ScanQRCode 记录二维码扫描
// 未携带指纹时按客户端 IP 与 User-Agent 派生，用于独立扫描去重。
func (h *Handler) ScanQRCode(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var req ScanQRCodeRequest
	_ = c.ShouldBindJSON(&req)

	fingerprint := strings.TrimSpace(req.Fingerprint)
	if fingerprint == "" {
		fingerprint = fmt.Sprintf("%s|%s", c.ClientIP(), c.Request.UserAgent())
	}

	result, err := h.QRCodeService.RecordScan(code, fingerprint)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQRCodeNotFound):
			respondError(c, response.CodeNotFound, "error.qr_not_found", nil)
		case errors.Is(err, service.ErrQRCodeInactive):
			respondError(c, response.CodeBadRequest, "error.qr_inactive", nil)
		case errors.Is(err, service.ErrQRCodeInvalid):
			respondError(c, response.CodeBadRequest, "error.qr_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.qr_update_failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"qr_code":     result.QRCode,
		"unique_scan": result.UniqueScan,
	})
}

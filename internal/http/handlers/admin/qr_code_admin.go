package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/loyalty-next/internal/http/response"
	"github.com/loyalty-next/internal/repository"
	"github.com/loyalty-next/internal/service"

	"github.com/gin-gonic/gin"
)

// QRCodeRequest 创建/更新二维码请求
type QRCodeRequest struct {
	BusinessID uint   `json:"business_id"`
	CodeType   string `json:"code_type"`
	Name       string `json:"name"`
	Content    string `json:"content"`
	LinkURL    string `json:"link_url"`
	IsActive   *bool  `json:"is_active"`
}

func (r QRCodeRequest) toServiceInput() service.QRCodeInput {
	return service.QRCodeInput{
		CodeType: r.CodeType,
		Name:     r.Name,
		Content:  r.Content,
		LinkURL:  r.LinkURL,
		IsActive: r.IsActive,
	}
}

// GetQRCodes 获取二维码列表
func (h *Handler) GetQRCodes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	businessID, ok := parseQueryUint(c, "business_id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	filter := repository.QRCodeListFilter{
		Page:       page,
		PageSize:   pageSize,
		BusinessID: businessID,
		CodeType:   strings.TrimSpace(strings.ToLower(c.Query("code_type"))),
	}
	if raw := strings.TrimSpace(c.Query("is_active")); raw != "" {
		active := raw == "true" || raw == "1"
		filter.IsActive = &active
	}

	qrCodes, total, err := h.QRCodeService.ListQRCodes(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.qr_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, qrCodes, response.BuildPagination(page, pageSize, total))
}

// GetQRCode 获取二维码详情
func (h *Handler) GetQRCode(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	qrCode, err := h.QRCodeService.GetQRCode(id)
	if err != nil {
		if errors.Is(err, service.ErrQRCodeNotFound) {
			respondError(c, response.CodeNotFound, "error.qr_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.qr_fetch_failed", err)
		return
	}

	response.Success(c, qrCode)
}

// CreateQRCode 创建二维码
func (h *Handler) CreateQRCode(c *gin.Context) {
	var req QRCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.BusinessID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	qrCode, err := h.QRCodeService.CreateQRCode(req.BusinessID, req.toServiceInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBusinessNotFound):
			respondError(c, response.CodeNotFound, "error.business_not_found", nil)
		case errors.Is(err, service.ErrQRCodeInvalid):
			respondError(c, response.CodeBadRequest, "error.qr_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.qr_create_failed", err)
		}
		return
	}

	response.Success(c, qrCode)
}

// UpdateQRCode 更新二维码
func (h *Handler) UpdateQRCode(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var req QRCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	qrCode, err := h.QRCodeService.UpdateQRCode(id, req.BusinessID, req.toServiceInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQRCodeNotFound):
			respondError(c, response.CodeNotFound, "error.qr_not_found", nil)
		case errors.Is(err, service.ErrQRCodeInvalid):
			respondError(c, response.CodeBadRequest, "error.qr_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.qr_update_failed", err)
		}
		return
	}

	response.Success(c, qrCode)
}

// DeleteQRCode 删除二维码
func (h *Handler) DeleteQRCode(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	businessID, ok := parseQueryUint(c, "business_id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	if err := h.QRCodeService.DeleteQRCode(id, businessID); err != nil {
		switch {
		case errors.Is(err, service.ErrQRCodeNotFound):
			respondError(c, response.CodeNotFound, "error.qr_not_found", nil)
		case errors.Is(err, service.ErrQRCodeInvalid):
			respondError(c, response.CodeBadRequest, "error.qr_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.qr_delete_failed", err)
		}
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

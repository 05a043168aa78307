package admin

import (
	"errors"
	"strings"

	"github.com/loyalty-next/internal/http/response"
	"github.com/loyalty-next/internal/models"
	"github.com/loyalty-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UpsertSettingRequest 保存设置请求
type UpsertSettingRequest struct {
	BusinessID uint                   `json:"business_id" binding:"required"`
	Key        string                 `json:"key" binding:"required"`
	Value      map[string]interface{} `json:"value" binding:"required"`
}

// GetSettings 获取商家设置
// 带 key 参数时返回单条设置，否则返回商家全部设置。
func (h *Handler) GetSettings(c *gin.Context) {
	businessID, ok := requireQueryBusinessID(c)
	if !ok {
		return
	}

	key := strings.TrimSpace(c.Query("key"))
	if key != "" {
		setting, err := h.SettingService.GetSetting(businessID, key)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrSettingNotFound):
				respondError(c, response.CodeNotFound, "error.setting_not_found", nil)
			case errors.Is(err, service.ErrSettingInvalid):
				respondError(c, response.CodeBadRequest, "error.setting_invalid", nil)
			default:
				respondError(c, response.CodeInternal, "error.setting_fetch_failed", err)
			}
			return
		}
		response.Success(c, setting)
		return
	}

	settings, err := h.SettingService.ListSettings(businessID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.setting_fetch_failed", err)
		return
	}

	response.Success(c, settings)
}

// UpsertSetting 保存商家设置（不存在则创建，存在则覆盖）
func (h *Handler) UpsertSetting(c *gin.Context) {
	var req UpsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	setting, created, err := h.SettingService.UpsertSetting(req.BusinessID, req.Key, models.JSON(req.Value))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSettingInvalid):
			respondError(c, response.CodeBadRequest, "error.setting_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.setting_save_failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"setting": setting,
		"created": created,
	})
}

// DeleteSetting 删除商家设置
func (h *Handler) DeleteSetting(c *gin.Context) {
	businessID, ok := requireQueryBusinessID(c)
	if !ok {
		return
	}
	key := strings.TrimSpace(c.Query("key"))
	if key == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	if err := h.SettingService.DeleteSetting(businessID, key); err != nil {
		switch {
		case errors.Is(err, service.ErrSettingNotFound):
			respondError(c, response.CodeNotFound, "error.setting_not_found", nil)
		case errors.Is(err, service.ErrSettingInvalid):
			respondError(c, response.CodeBadRequest, "error.setting_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.setting_delete_failed", err)
		}
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

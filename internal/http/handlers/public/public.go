package public

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/loyalty-next/internal/cache"
	"github.com/loyalty-next/internal/constants"
	"github.com/loyalty-next/internal/http/response"
	"github.com/loyalty-next/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	publicConfigCacheKey = "public:config"
	publicConfigCacheTTL = 60 * time.Second
)

// GetConfig 获取全局配置
// 携带 business 参数时附带对应商家的公开信息与站点设置。
func (h *Handler) GetConfig(c *gin.Context) {
	data := map[string]interface{}{
		"languages": []string{"en", "zh-CN"},
	}
	if h.CaptchaService != nil {
		data["captcha"] = map[string]interface{}{
			"provider": h.CaptchaService.Provider(),
			"scenes": map[string]bool{
				constants.CaptchaSceneLogin:      h.CaptchaService.IsSceneEnabled(constants.CaptchaSceneLogin),
				constants.CaptchaSceneAdminLogin: h.CaptchaService.IsSceneEnabled(constants.CaptchaSceneAdminLogin),
			},
		}
	}

	slug := strings.TrimSpace(strings.ToLower(c.Query("business")))
	if slug == "" {
		var cached map[string]interface{}
		cacheKey := publicConfigCacheKey
		if hit, err := cache.GetJSON(c.Request.Context(), cacheKey, &cached); err == nil && hit {
			response.Success(c, cached)
			return
		}
		_ = cache.SetJSON(c.Request.Context(), cacheKey, data, publicConfigCacheTTL)
		response.Success(c, data)
		return
	}

	cacheKey := fmt.Sprintf("%s:%s", publicConfigCacheKey, slug)
	var cached map[string]interface{}
	if hit, err := cache.GetJSON(c.Request.Context(), cacheKey, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	business, err := h.BusinessService.GetBusinessBySlug(slug)
	if err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			respondError(c, response.CodeNotFound, "error.business_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.business_fetch_failed", err)
		return
	}

	data["business"] = map[string]interface{}{
		"id":        business.ID,
		"name":      business.Name,
		"slug":      business.Slug,
		"is_active": business.IsActive,
	}

	siteConfig, err := h.SettingService.GetSettingValue(business.ID, constants.SettingKeySiteConfig)
	if err == nil && len(siteConfig) > 0 {
		data["site_config"] = siteConfig
	}
	theme, err := h.SettingService.GetSettingValue(business.ID, constants.SettingKeyTheme)
	if err == nil && len(theme) > 0 {
		data["theme"] = theme
	}

	if program, programErr := h.ProgramService.GetProgram(business.ID); programErr == nil && program.IsActive {
		data["program"] = map[string]interface{}{
			"name":                program.Name,
			"description":         program.Description,
			"tiers":               program.Tiers,
			"points_per_purchase": program.PointsPerPurchase,
			"points_per_referral": program.PointsPerReferral,
		}
	}

	_ = cache.SetJSON(c.Request.Context(), cacheKey, data, publicConfigCacheTTL)
	response.Success(c, data)
}

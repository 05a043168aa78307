package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/loyalty-next/internal/authz"
	"github.com/loyalty-next/internal/cache"
	"github.com/loyalty-next/internal/config"
	adminhandlers "github.com/loyalty-next/internal/http/handlers/admin"
	publichandlers "github.com/loyalty-next/internal/http/handlers/public"
	"github.com/loyalty-next/internal/http/response"
	"github.com/loyalty-next/internal/logger"
	"github.com/loyalty-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "loyalty"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.login_too_many",
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.login_too_many",
	}
	scanRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:scan", redisPrefix),
		WindowSeconds: cfg.Security.ScanRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.ScanRateLimit.MaxAttempts,
		MessageKey:    "error.rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.GetConfig)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/register-business", publicHandler.BusinessRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
		}

		// 扫码与兑换码校验无需登录，展示牌上的二维码要能被任何人扫
		apiV1.POST("/qr/:code/scan", RateLimitMiddleware(redisClient, scanRule, KeyByIP), publicHandler.ScanQRCode)
		apiV1.POST("/codes/validate", publicHandler.ValidateCode)

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetMe)
			user.PUT("/me/profile", publicHandler.UpdateProfile)
			user.PUT("/me/password", publicHandler.UpdateUserPassword)
			user.GET("/me/cards", publicHandler.GetMyCards)
			user.GET("/me/transactions", publicHandler.GetMyTransactions)
			user.GET("/me/codes", publicHandler.GetMyCodes)
			user.POST("/codes/redeem", publicHandler.RedeemCode)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				// 仪表盘
				authorized.GET("/dashboard/overview", adminHandler.GetDashboardOverview)
				authorized.GET("/dashboard/trends", adminHandler.GetDashboardTrends)
				authorized.GET("/dashboard/top-rewards", adminHandler.GetDashboardTopRewards)

				// 商家管理
				authorized.GET("/businesses", adminHandler.GetBusinesses)
				authorized.GET("/businesses/:id", adminHandler.GetBusiness)
				authorized.POST("/businesses", adminHandler.CreateBusiness)
				authorized.PUT("/businesses/:id", adminHandler.UpdateBusiness)

				// 积分计划（每商家一个）
				authorized.GET("/businesses/:id/program", adminHandler.GetBusinessProgram)
				authorized.POST("/businesses/:id/program", adminHandler.CreateBusinessProgram)
				authorized.PUT("/businesses/:id/program", adminHandler.UpdateBusinessProgram)

				// 奖励管理
				authorized.GET("/rewards", adminHandler.GetRewards)
				authorized.GET("/rewards/:id", adminHandler.GetReward)
				authorized.POST("/rewards", adminHandler.CreateReward)
				authorized.PUT("/rewards/:id", adminHandler.UpdateReward)
				authorized.DELETE("/rewards/:id", adminHandler.DeleteReward)

				// 兑换码管理
				authorized.POST("/codes/generate", adminHandler.GenerateCodes)
				authorized.GET("/codes", adminHandler.GetCodes)
				authorized.GET("/codes/export", adminHandler.ExportCodes)
				authorized.PUT("/codes/:id", adminHandler.UpdateCode)

				// 二维码管理
				authorized.GET("/qrcodes", adminHandler.GetQRCodes)
				authorized.GET("/qrcodes/:id", adminHandler.GetQRCode)
				authorized.POST("/qrcodes", adminHandler.CreateQRCode)
				authorized.PUT("/qrcodes/:id", adminHandler.UpdateQRCode)
				authorized.DELETE("/qrcodes/:id", adminHandler.DeleteQRCode)

				// 商家设置
				authorized.GET("/settings", adminHandler.GetSettings)
				authorized.POST("/settings", adminHandler.UpsertSetting)
				authorized.DELETE("/settings", adminHandler.DeleteSetting)

				// 顾客管理
				authorized.GET("/customers", adminHandler.GetCustomers)
				authorized.GET("/customers/:id", adminHandler.GetCustomer)
				authorized.POST("/customers/:id/points", adminHandler.IssueCustomerPoints)

				// 积分流水
				authorized.GET("/transactions", adminHandler.GetTransactions)

				// 权限对象目录（供角色配置界面使用）
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})

				authorized.PUT("/password", adminHandler.UpdateAdminPassword) // 修改密码
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}

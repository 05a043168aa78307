package i18n

// catalogs 消息目录（按语言 -> 键 -> 文案）
var catalogs = map[string]map[string]string{
	"en": {
		"error.bad_request":              "invalid request",
		"error.unauthorized":             "unauthorized",
		"error.forbidden":                "permission denied",
		"error.not_found":                "resource not found",
		"error.internal":                 "internal server error",
		"error.login_too_many":           "too many login attempts, please try again later",
		"error.login_failed":             "login failed",
		"error.admin_id_invalid":         "invalid admin identity",
		"error.admin_id_type_invalid":    "unexpected admin identity type",
		"error.user_id_invalid":          "invalid user identity",
		"error.user_id_type_invalid":     "unexpected user identity type",
		"error.jwt_secret_missing":       "authentication is not configured",
		"error.auth_header_missing":      "authorization header is required",
		"error.auth_header_invalid":      "authorization header is malformed",
		"error.token_invalid":            "invalid or expired token",
		"error.token_revoked":            "token has been revoked",
		"error.rate_limited":             "too many requests, please slow down",
		"error.rate_limit_unavailable":   "rate limiter is unavailable",
		"error.invalid_credentials":      "invalid email or password",
		"error.account_disabled":         "account is disabled",
		"error.email_exists":             "email is already registered",
		"error.password_policy":          "password does not meet the security policy",
		"error.password_min_length":      "password must be at least %d characters",
		"error.password_require_upper":   "password must contain an uppercase letter",
		"error.password_require_lower":   "password must contain a lowercase letter",
		"error.password_require_number":  "password must contain a number",
		"error.password_require_special": "password must contain a special character",
		"error.old_password_invalid":     "current password is incorrect",
		"error.captcha_required":         "captcha is required",
		"error.captcha_invalid":          "captcha verification failed",
		"error.user_not_found":           "user not found",
		"error.business_invalid":         "invalid business data",
		"error.business_not_found":       "business not found",
		"error.business_slug_exists":     "business slug is already taken",
		"error.business_create_failed":   "failed to create business",
		"error.business_update_failed":   "failed to update business",
		"error.business_fetch_failed":    "failed to load businesses",
		"error.program_invalid":          "invalid loyalty program data",
		"error.program_not_found":        "loyalty program not found",
		"error.program_exists":           "business already has a loyalty program",
		"error.program_create_failed":    "failed to create loyalty program",
		"error.program_update_failed":    "failed to update loyalty program",
		"error.program_fetch_failed":     "failed to load loyalty program",
		"error.reward_invalid":           "invalid reward data",
		"error.reward_not_found":         "reward not found",
		"error.reward_out_of_stock":      "reward is out of stock",
		"error.reward_create_failed":     "failed to create reward",
		"error.reward_update_failed":     "failed to update reward",
		"error.reward_delete_failed":     "failed to delete reward",
		"error.reward_fetch_failed":      "failed to load rewards",
		"error.code_invalid":             "invalid redemption code request",
		"error.code_not_found":           "redemption code not found",
		"error.code_redeemed":            "code has already been redeemed",
		"error.code_expired":             "code has expired",
		"error.code_cancelled":           "code has been cancelled",
		"error.code_business_mismatch":   "code does not belong to this business",
		"error.code_customer_mismatch":   "code is reserved for another customer",
		"error.code_generate_failed":     "failed to generate redemption codes",
		"error.code_update_failed":       "failed to update redemption code",
		"error.code_fetch_failed":        "failed to load redemption codes",
		"error.qr_invalid":               "invalid qr code data",
		"error.qr_not_found":             "qr code not found",
		"error.qr_inactive":              "qr code is inactive",
		"error.qr_create_failed":         "failed to create qr code",
		"error.qr_update_failed":         "failed to update qr code",
		"error.qr_delete_failed":         "failed to delete qr code",
		"error.qr_fetch_failed":          "failed to load qr codes",
		"error.setting_invalid":          "invalid setting data",
		"error.setting_not_found":        "setting not found",
		"error.setting_save_failed":      "failed to save setting",
		"error.setting_delete_failed":    "failed to delete setting",
		"error.setting_fetch_failed":     "failed to load settings",
		"error.customer_not_found":       "customer not found",
		"error.customer_fetch_failed":    "failed to load customers",
		"error.points_invalid":           "invalid points operation",
		"error.points_issue_failed":      "failed to issue points",
		"error.card_fetch_failed":        "failed to load loyalty cards",
		"error.transaction_fetch_failed": "failed to load transactions",
		"error.dashboard_fetch_failed":   "failed to load dashboard data",
	},
	LocaleZhCN: {
		"error.bad_request":              "请求参数有误",
		"error.unauthorized":             "请先登录",
		"error.forbidden":                "没有操作权限",
		"error.not_found":                "资源不存在",
		"error.internal":                 "服务器内部错误",
		"error.login_too_many":           "登录尝试过于频繁，请稍后再试",
		"error.login_failed":             "登录失败",
		"error.admin_id_invalid":         "管理员身份无效",
		"error.admin_id_type_invalid":    "管理员身份类型异常",
		"error.user_id_invalid":          "用户身份无效",
		"error.user_id_type_invalid":     "用户身份类型异常",
		"error.jwt_secret_missing":       "鉴权配置缺失",
		"error.auth_header_missing":      "缺少 Authorization 请求头",
		"error.auth_header_invalid":      "Authorization 请求头格式有误",
		"error.token_invalid":            "令牌无效或已过期",
		"error.token_revoked":            "令牌已失效",
		"error.rate_limited":             "请求过于频繁，请稍后再试",
		"error.rate_limit_unavailable":   "限流服务不可用",
		"error.invalid_credentials":      "邮箱或密码错误",
		"error.account_disabled":         "账号已被禁用",
		"error.email_exists":             "邮箱已被注册",
		"error.password_policy":          "密码不符合安全策略",
		"error.password_min_length":      "密码长度不能少于 %d 位",
		"error.password_require_upper":   "密码需要包含大写字母",
		"error.password_require_lower":   "密码需要包含小写字母",
		"error.password_require_number":  "密码需要包含数字",
		"error.password_require_special": "密码需要包含特殊字符",
		"error.old_password_invalid":     "当前密码错误",
		"error.captcha_required":         "请先完成验证码",
		"error.captcha_invalid":          "验证码校验失败",
		"error.user_not_found":           "用户不存在",
		"error.business_invalid":         "商家信息无效",
		"error.business_not_found":       "商家不存在",
		"error.business_slug_exists":     "商家标识已被占用",
		"error.business_create_failed":   "创建商家失败",
		"error.business_update_failed":   "更新商家失败",
		"error.business_fetch_failed":    "获取商家列表失败",
		"error.program_invalid":          "积分计划信息无效",
		"error.program_not_found":        "积分计划不存在",
		"error.program_exists":           "该商家已存在积分计划",
		"error.program_create_failed":    "创建积分计划失败",
		"error.program_update_failed":    "更新积分计划失败",
		"error.program_fetch_failed":     "获取积分计划失败",
		"error.reward_invalid":           "奖励信息无效",
		"error.reward_not_found":         "奖励不存在",
		"error.reward_out_of_stock":      "奖励已兑完",
		"error.reward_create_failed":     "创建奖励失败",
		"error.reward_update_failed":     "更新奖励失败",
		"error.reward_delete_failed":     "删除奖励失败",
		"error.reward_fetch_failed":      "获取奖励列表失败",
		"error.code_invalid":             "兑换码请求无效",
		"error.code_not_found":           "兑换码不存在",
		"error.code_redeemed":            "兑换码已被使用",
		"error.code_expired":             "兑换码已过期",
		"error.code_cancelled":           "兑换码已作废",
		"error.code_business_mismatch":   "兑换码不属于该商家",
		"error.code_customer_mismatch":   "兑换码已绑定其他顾客",
		"error.code_generate_failed":     "生成兑换码失败",
		"error.code_update_failed":       "更新兑换码失败",
		"error.code_fetch_failed":        "获取兑换码列表失败",
		"error.qr_invalid":               "二维码信息无效",
		"error.qr_not_found":             "二维码不存在",
		"error.qr_inactive":              "二维码已停用",
		"error.qr_create_failed":         "创建二维码失败",
		"error.qr_update_failed":         "更新二维码失败",
		"error.qr_delete_failed":         "删除二维码失败",
		"error.qr_fetch_failed":          "获取二维码列表失败",
		"error.setting_invalid":          "设置信息无效",
		"error.setting_not_found":        "设置不存在",
		"error.setting_save_failed":      "保存设置失败",
		"error.setting_delete_failed":    "删除设置失败",
		"error.setting_fetch_failed":     "获取设置失败",
		"error.customer_not_found":       "顾客不存在",
		"error.customer_fetch_failed":    "获取顾客列表失败",
		"error.points_invalid":           "积分操作无效",
		"error.points_issue_failed":      "发放积分失败",
		"error.card_fetch_failed":        "获取会员卡失败",
		"error.transaction_fetch_failed": "获取积分流水失败",
		"error.dashboard_fetch_failed":   "获取看板数据失败",
	},
}

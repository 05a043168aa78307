package public

import handlershared "github.com/loyalty-next/internal/http/handlers/shared"

// CaptchaPayloadRequest 前台验证码请求载荷
type CaptchaPayloadRequest = handlershared.CaptchaPayloadRequest

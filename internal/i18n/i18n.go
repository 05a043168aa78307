package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// DefaultLocale 默认语言
const DefaultLocale = "en"

// LocaleZhCN 简体中文
const LocaleZhCN = "zh-CN"

var supportedLocales = map[string]string{
	"en":    "en",
	"en-us": "en",
	"en-gb": "en",
	"zh":    LocaleZhCN,
	"zh-cn": LocaleZhCN,
	"zh-tw": LocaleZhCN,
}

// ResolveLocale 解析请求语言：query > header > 默认
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if locale := NormalizeLocale(c.Query("locale")); locale != "" {
		return locale
	}
	header := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if locale := NormalizeLocale(tag); locale != "" {
			return locale
		}
	}
	return DefaultLocale
}

// NormalizeLocale 归一化语言标签，不支持的返回空串
func NormalizeLocale(raw string) string {
	tag := strings.ToLower(strings.TrimSpace(raw))
	if tag == "" {
		return ""
	}
	if locale, ok := supportedLocales[tag]; ok {
		return locale
	}
	// 回退到主语言（zh-hans-cn -> zh）
	if idx := strings.Index(tag, "-"); idx > 0 {
		if locale, ok := supportedLocales[tag[:idx]]; ok {
			return locale
		}
	}
	return ""
}

// TF 翻译消息键并填充格式参数
func TF(locale, key string, args ...interface{}) string {
	msg := T(locale, key)
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// T 翻译消息键，未命中时回退英文，再回退键本身
func T(locale, key string) string {
	if catalog, ok := catalogs[locale]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	if msg, ok := catalogs[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/product-inventory/internal/i18n"
)

func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("lang", resolveLanguage(c.GetHeader("Accept-Language")))
		c.Next()
	}
}

// resolveLanguage picks the first supported entry of an Accept-Language
// header such as "zh-TW,zh;q=0.9,en;q=0.8".
func resolveLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.Split(part, ";")[0])

		var lang string
		switch strings.ToLower(strings.ReplaceAll(tag, "_", "-")) {
		case "zh-tw", "zh-hant", "zh-hant-tw", "zh-hk", "zh":
			lang = "zh_TW"
		case "en", "en-us", "en-gb":
			lang = "en"
		default:
			if strings.HasPrefix(strings.ToLower(tag), "en") {
				lang = "en"
			}
		}

		if lang != "" && i18n.IsSupported(lang) {
			return lang
		}
	}
	return i18n.DefaultLanguage()
}

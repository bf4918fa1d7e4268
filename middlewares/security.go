package middlewares

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders sets the console's hardening headers. Images may come from
// imageHosts as well as the console itself.
func SecurityHeaders(imageHosts ...string) gin.HandlerFunc {
	imgSrc := []string{"'self'", "data:"}
	for _, h := range imageHosts {
		if h != "" {
			imgSrc = append(imgSrc, h)
		}
	}
	csp := "default-src 'self'; img-src " + strings.Join(imgSrc, " ") + "; style-src 'self' 'unsafe-inline'; form-action 'self'; frame-ancestors 'none'"

	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Content-Security-Policy", csp)
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		c.Next()
	}
}

// OriginOf returns the scheme://host part of rawURL, or "" when it has none.
func OriginOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

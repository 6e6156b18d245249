package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/todoapi/internal/pkg/response"
	apperrors "github.com/xyz-asif/todoapi/pkg/errors"
)

// TrustedHosts rejects requests whose Host header is not in allowed.
// Entries may be exact hosts or "*.example.com". An empty list or "*"
// disables the check.
func TrustedHosts(allowed []string) gin.HandlerFunc {
	var exact []string
	var suffixes []string
	for _, h := range allowed {
		h = strings.ToLower(strings.TrimSpace(h))
		switch {
		case h == "*":
			return func(c *gin.Context) { c.Next() }
		case strings.HasPrefix(h, "*."):
			suffixes = append(suffixes, h[1:])
		case h != "":
			exact = append(exact, h)
		}
	}
	if len(exact) == 0 && len(suffixes) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		host := strings.ToLower(c.Request.Host)
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}

		for _, e := range exact {
			if host == e {
				c.Next()
				return
			}
		}
		for _, s := range suffixes {
			if strings.HasSuffix(host, s) {
				c.Next()
				return
			}
		}

		response.Fail(c, apperrors.BadRequest("Invalid host header"))
	}
}

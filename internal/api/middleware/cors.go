package middleware

import (
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// ConfigCORS allows every origin when domains is empty or contains "*".
// Other entries must be full origins such as https://example.com.
func ConfigCORS(domains []string) gin.HandlerFunc {
	conf := cors.DefaultConfig()

	if len(domains) == 0 || slices.Contains(domains, "*") {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = domains
	}

	conf.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	conf.AddAllowHeaders("HX-Request", "HX-Target", "HX-Current-URL", "X-Request-ID")
	conf.AddExposeHeaders("X-Request-ID")

	return cors.New(conf)
}

package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"codepad/internal/server/service"
	"codepad/pkg/utils/response"
)

// RateLimitMiddleware enforces a per-IP limit on one route. A nil service
// disables limiting.
func RateLimitMiddleware(rateService *service.RateLimitService, routeKey string, ipMax int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rateService == nil || ipMax <= 0 {
			c.Next()
			return
		}
		key := fmt.Sprintf("codepad:rate:ip:%s:%s", c.ClientIP(), routeKey)
		if err := rateService.Allow(c.Request.Context(), key, ipMax); err != nil {
			response.AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	sharedError "github.com/lavictoria/club-api/internal/shared/error"
	"github.com/lavictoria/club-api/internal/shared/logger"
	"github.com/lavictoria/club-api/internal/shared/metrics"
	"github.com/lavictoria/club-api/internal/shared/ratelimit"

	"github.com/gin-gonic/gin"
)

var TooManyRequests = sharedError.ErrorResponse{
	Status:  http.StatusTooManyRequests,
	Code:    "AUTH-429",
	Message: "Demasiados intentos, intente nuevamente más tarde",
}

// RateLimit throttles requests per client IP under the given limit name.
// Store errors let the request through.
func RateLimit(store ratelimit.Store, name string, limit int, window time.Duration, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := name + ":" + c.ClientIP()

		res, err := store.Allow(ctx, key, limit, window)
		if err != nil {
			logger.FromContext(ctx).Warn("Rate limit store unavailable, allowing request",
				"limit", name, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if !res.Allowed {
			retryAfter := int(math.Ceil(time.Until(res.ResetAt).Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			m.IncrementRateLimited(name)
			logger.FromContext(ctx).Warn("Rate limit exceeded",
				"limit", name, "client_ip", c.ClientIP())

			c.AbortWithStatusJSON(TooManyRequests.Status, TooManyRequests)
			return
		}

		c.Next()
	}
}

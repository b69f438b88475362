package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/zefast/zefast_web/internal/forms"
)

const defaultPerMinute = 5

// RateLimit caps requests per minute per identifier. The identifier is the
// first non-empty body field among fields (phone numbers normalized, emails
// lowercased), else the client IP. Without Redis it is a no-op; Redis errors
// fail open.
func RateLimit(cache *redis.Client, scope string, maxPerMin int, logger *slog.Logger, fields ...string) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = defaultPerMinute
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}
		key := "rl:" + scope + ":" + identifier(c, fields)
		ctx := c.UserContext()

		cnt, err := cache.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("rate_limit_unavailable", slog.String("scope", scope), slog.String("error", err.Error()))
			return c.Next()
		}
		if cnt == 1 {
			cache.Expire(ctx, key, time.Minute)
		}
		if cnt > int64(maxPerMin) {
			if ttl, err := cache.TTL(ctx, key).Result(); err == nil && ttl > 0 {
				c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(ttl.Seconds())))
			}
			return fiber.NewError(http.StatusTooManyRequests, "Trop de tentatives. Veuillez réessayer dans une minute.")
		}
		return c.Next()
	}
}

func identifier(c *fiber.Ctx, fields []string) string {
	if len(fields) > 0 {
		var body map[string]any
		if err := c.BodyParser(&body); err == nil {
			for _, f := range fields {
				s, _ := body[f].(string)
				if s = strings.TrimSpace(s); s == "" {
					continue
				}
				if strings.Contains(s, "@") {
					return strings.ToLower(s)
				}
				return forms.NormalizePhone(s)
			}
		}
	}
	return c.IP()
}

package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type RateLimitOption func(*limiter.Config)

// KeyByParam limits per client IP and route param value instead of per IP alone.
func KeyByParam(name string) RateLimitOption {
	return func(cfg *limiter.Config) {
		cfg.KeyGenerator = func(c *fiber.Ctx) string {
			return c.IP() + "|" + strings.ToUpper(c.Params(name))
		}
	}
}

// SkipPaths exempts exact request paths.
func SkipPaths(paths ...string) RateLimitOption {
	return func(cfg *limiter.Config) {
		cfg.Next = func(c *fiber.Ctx) bool {
			for _, p := range paths {
				if c.Path() == p {
					return true
				}
			}
			return false
		}
	}
}

// RateLimiter allows max requests per key within a sliding window of expiration.
func RateLimiter(max int, expiration time.Duration, opts ...RateLimitOption) fiber.Handler {
	if max <= 0 {
		max = 50
	}
	if expiration == 0 {
		expiration = 1 * time.Minute
	}
	cfg := limiter.Config{
		Max:        max,
		Expiration: expiration,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please slow down",
			})
		},
		LimiterMiddleware: limiter.SlidingWindow{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return limiter.New(cfg)
}

package http

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/jhoicas/timereg-api/internal/application/dto"
)

// clientLimiter limitador por cliente y última vez visto.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter token bucket por IP. perMinute es la tasa sostenida y también la ráfaga.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	staleAge  time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter construye el limitador.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &RateLimiter{
		clients:  make(map[string]*clientLimiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		staleAge: 10 * time.Minute,
		now:      time.Now,
	}
}

func (rl *RateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	// Limpieza perezosa de clientes inactivos, como mucho una vez por minuto.
	if now.Sub(rl.lastSweep) > time.Minute {
		for k, cl := range rl.clients {
			if now.Sub(cl.lastSeen) > rl.staleAge {
				delete(rl.clients, k)
			}
		}
		rl.lastSweep = now
	}
	cl, ok := rl.clients[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// Handler middleware Fiber: 429 con Retry-After cuando se supera la tasa.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limiter := rl.get(c.IP())
		reservation := limiter.ReserveN(rl.now(), 1)
		if !reservation.OK() {
			return tooManyRequests(c, 0)
		}
		if delay := reservation.DelayFrom(rl.now()); delay > 0 {
			reservation.CancelAt(rl.now())
			return tooManyRequests(c, int(delay.Seconds())+1)
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(rl.burst))
		return c.Next()
	}
}

func tooManyRequests(c *fiber.Ctx, retryAfter int) error {
	if retryAfter > 0 {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
	}
	return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
		Code: "RATE_LIMITED", Message: "demasiadas peticiones, intente más tarde",
	})
}

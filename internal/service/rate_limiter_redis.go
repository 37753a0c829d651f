package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Ventana fija: el índice de ventana va en la clave, la clave muere con la ventana.
const analysisWindowScript = `
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisRateLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	now    func() time.Time
}

// NewRedisRateLimiter cuenta análisis por usuario y ventana fija en Redis,
// compartido entre instancias. Si Redis no responde, deja pasar.
func NewRedisRateLimiter(client *redis.Client, window time.Duration, max int) AnalysisRateLimiter {
	if client == nil {
		return nil
	}
	if window < time.Millisecond {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisRateLimiter{
		client: client,
		window: window,
		max:    max,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// windowKey devuelve la clave del contador de userID para la ventana que contiene at.
func (l *redisRateLimiter) windowKey(userID string, at time.Time) string {
	return fmt.Sprintf("analysis:rl:%s:%d", userID, at.UnixMilli()/l.window.Milliseconds())
}

func (l *redisRateLimiter) Allow(ctx context.Context, userID string) bool {
	if l == nil || l.client == nil {
		return true
	}
	if userID == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	key := l.windowKey(userID, l.now())
	n, err := l.client.Eval(ctx, analysisWindowScript, []string{key}, l.window.Milliseconds()).Int()
	if err != nil {
		return true
	}
	return n <= l.max
}

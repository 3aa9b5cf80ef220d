package notifier

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/timereg-api/internal/application/ports"
	"github.com/jhoicas/timereg-api/pkg/config"
)

// New construye el notificador según cfg.Backend. client solo se usa con el backend redis.
func New(cfg config.NotificationConfig, client goredis.Cmdable, log zerolog.Logger) (ports.ResetNotifier, error) {
	switch cfg.Backend {
	case config.NotifyBackendLog, "":
		return NewLogNotifier(cfg, log), nil
	case config.NotifyBackendRedis:
		if client == nil {
			return nil, fmt.Errorf("notifier redis: cliente no configurado")
		}
		return NewRedisStreamNotifier(cfg, client), nil
	}
	return nil, fmt.Errorf("notifier: backend desconocido %q", cfg.Backend)
}

var _ ports.ResetNotifier = (*LogNotifier)(nil)

// LogNotifier escribe el aviso en el log. Pensado para desarrollo.
type LogNotifier struct {
	cfg config.NotificationConfig
	log zerolog.Logger
}

// NewLogNotifier construye el notificador de desarrollo.
func NewLogNotifier(cfg config.NotificationConfig, log zerolog.Logger) *LogNotifier {
	return &LogNotifier{cfg: cfg, log: log}
}

// SendResetCode registra el código a nivel info.
func (n *LogNotifier) SendResetCode(_ context.Context, email, code string) error {
	n.log.Info().
		Str("to", email).
		Str("from", n.cfg.From).
		Str("subject", n.cfg.Subject).
		Str("code", code).
		Dur("valid_for", n.cfg.CodeTTL).
		Msg("código de recuperación emitido")
	return nil
}

var _ ports.ResetNotifier = (*RedisStreamNotifier)(nil)

// RedisStreamNotifier publica el aviso en un stream de Redis; un worker externo envía el correo.
// Entrega al menos una vez: el consumidor debe tolerar duplicados.
type RedisStreamNotifier struct {
	cfg    config.NotificationConfig
	client goredis.Cmdable
	now    func() time.Time
}

// NewRedisStreamNotifier construye el notificador sobre el stream cfg.Stream.
func NewRedisStreamNotifier(cfg config.NotificationConfig, client goredis.Cmdable) *RedisStreamNotifier {
	return &RedisStreamNotifier{cfg: cfg, client: client, now: time.Now}
}

// SendResetCode hace XADD con los campos del correo.
func (n *RedisStreamNotifier) SendResetCode(ctx context.Context, email, code string) error {
	err := n.client.XAdd(ctx, &goredis.XAddArgs{
		Stream: n.cfg.Stream,
		Values: map[string]any{
			"kind":       "password_reset",
			"to":         email,
			"from":       n.cfg.From,
			"subject":    n.cfg.Subject,
			"code":       code,
			"expires_at": n.now().Add(n.cfg.CodeTTL).UTC().Format(time.RFC3339),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("publicar código en %s: %w", n.cfg.Stream, err)
	}
	return nil
}

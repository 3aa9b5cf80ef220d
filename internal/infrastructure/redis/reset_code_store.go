package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/timereg-api/internal/application/ports"
)

const resetCodeKeyPrefix = "timereg:reset:"

var _ ports.ResetCodeStore = (*ResetCodeStore)(nil)

// ResetCodeStore guarda el código de recuperación vigente por email con expiración.
// Un nuevo código reemplaza al anterior.
type ResetCodeStore struct {
	client goredis.Cmdable
	ttl    time.Duration
}

// NewResetCodeStore construye el almacén con la vigencia de los códigos.
func NewResetCodeStore(client goredis.Cmdable, ttl time.Duration) *ResetCodeStore {
	return &ResetCodeStore{client: client, ttl: ttl}
}

func resetKey(email string) string {
	return resetCodeKeyPrefix + strings.ToLower(strings.TrimSpace(email))
}

// Save guarda el código con TTL.
func (s *ResetCodeStore) Save(ctx context.Context, email, code string) error {
	if err := s.client.Set(ctx, resetKey(email), code, s.ttl).Err(); err != nil {
		return fmt.Errorf("guardar código de recuperación: %w", err)
	}
	return nil
}

// Consume compara y elimina el código en una sola operación (GETDEL): un código sirve una vez.
// Un código incorrecto también invalida el vigente.
func (s *ResetCodeStore) Consume(ctx context.Context, email, code string) (bool, error) {
	stored, err := s.client.GetDel(ctx, resetKey(email)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("consumir código de recuperación: %w", err)
	}
	return stored == code, nil
}

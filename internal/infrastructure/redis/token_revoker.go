package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/timereg-api/internal/application/ports"
)

const revokedKeyPrefix = "timereg:revoked:"

var _ ports.TokenRevoker = (*TokenRevoker)(nil)

// TokenRevoker lista negra de JWT por jti. La entrada expira cuando expiraría el token.
type TokenRevoker struct {
	client goredis.Cmdable
}

// NewTokenRevoker construye el revocador.
func NewTokenRevoker(client goredis.Cmdable) *TokenRevoker {
	return &TokenRevoker{client: client}
}

// Revoke marca el token como revocado durante ttl. Un ttl no positivo no hace nada: el token ya expiró.
func (r *TokenRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revocar token: %w", err)
	}
	return nil
}

// IsRevoked informa si el jti está en la lista negra.
func (r *TokenRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("consultar revocación: %w", err)
	}
	return n > 0, nil
}

package ports

import (
	"context"
	"time"
)

// ResetNotifier puerto de salida hacia el colaborador de notificaciones.
// La entrega (SMTP, cola, etc.) es responsabilidad del adaptador; el núcleo solo emite el evento.
type ResetNotifier interface {
	SendResetCode(ctx context.Context, email, code string) error
}

// ResetCodeStore guarda códigos de restablecimiento de contraseña con caducidad.
type ResetCodeStore interface {
	Save(ctx context.Context, email, code string) error
	// Consume valida el código y lo invalida. Devuelve false si no coincide o caducó.
	Consume(ctx context.Context, email, code string) (bool, error)
}

// TokenRevoker mantiene la lista de sesiones cerradas (logout) hasta que el token caduque.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

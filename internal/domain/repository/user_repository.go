package repository

import (
	"context"

	"github.com/jhoicas/timereg-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// ProfileRepository puerto para UserProfile. El perfil se crea de forma explícita
// dentro de la misma transacción que crea al usuario.
type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.UserProfile) error
	GetByUserID(ctx context.Context, userID string) (*entity.UserProfile, error)
	// SetActiveCompany actualiza el puntero a la empresa activa y el flag de administrador.
	SetActiveCompany(ctx context.Context, userID, companyID string, isAdmin bool) error
}

package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/timereg-api/internal/application/dto"
	"github.com/jhoicas/timereg-api/internal/application/ports"
	"github.com/jhoicas/timereg-api/internal/application/tenant"
	"github.com/jhoicas/timereg-api/internal/domain"
	"github.com/jhoicas/timereg-api/internal/domain/entity"
	"github.com/jhoicas/timereg-api/internal/domain/repository"
	"github.com/jhoicas/timereg-api/pkg/jwt"
)

// MinPasswordLength longitud mínima de contraseña.
const MinPasswordLength = 8

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Deps colaboradores externos del caso de uso de auth. Cualquiera puede ser nil salvo TxRunner.
type Deps struct {
	Tx       ports.TxRunner
	Repos    repository.Repos
	Codes    ports.ResetCodeStore
	Notifier ports.ResetNotifier
	Revoker  ports.TokenRevoker
}

// AuthUseCase casos de uso de autenticación: registro de empresa, login, logout y restablecimiento.
type AuthUseCase struct {
	deps   Deps
	jwtCfg JWTConfig
	now    func() time.Time
	log    zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(deps Deps, jwtCfg JWTConfig, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{deps: deps, jwtCfg: jwtCfg, now: time.Now, log: log}
}

// RegisterCompany crea usuario, perfil (paso explícito), empresa, membresía de administrador y
// empresa activa en una sola transacción. Cualquier fallo deshace todo.
func (uc *AuthUseCase) RegisterCompany(ctx context.Context, in dto.RegisterRequest) (*entity.User, *entity.Company, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || len([]rune(username)) > 150 {
		return nil, nil, fmt.Errorf("%w: username requerido (máx. 150 caracteres)", domain.ErrValidation)
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, nil, err
	}
	if err := validatePasswords(in.Password, in.PasswordConfirm); err != nil {
		return nil, nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	var company *entity.Company
	err = uc.deps.Tx.WithinTx(ctx, func(repos repository.Repos) error {
		existing, err := repos.Users.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrDuplicate)
		}
		if err := CreateIdentity(ctx, repos, user); err != nil {
			return err
		}
		company, err = tenant.Bootstrap(ctx, repos, in.CompanyName, user.ID, now)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) && !errors.Is(err, domain.ErrValidation) {
			return nil, nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		return nil, nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("company_id", company.ID).Msg("empresa registrada")
	return user, company, nil
}

// CreateIdentity inserta el usuario y su perfil vacío con los repositorios de la transacción
// del llamador. Todo usuario tiene exactamente un perfil.
func CreateIdentity(ctx context.Context, repos repository.Repos, user *entity.User) error {
	if err := repos.Users.Create(ctx, user); err != nil {
		return err
	}
	return repos.Profiles.Create(ctx, &entity.UserProfile{
		UserID:    user.ID,
		UpdatedAt: user.CreatedAt,
	})
}

// Login verifica usuario/contraseña y emite un JWT.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.deps.Repos.Users.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}
	token, claims, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      *ToUserResponse(user),
	}, nil
}

// Logout revoca el token hasta su expiración natural.
func (uc *AuthUseCase) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if uc.deps.Revoker == nil || tokenID == "" {
		return nil
	}
	ttl := expiresAt.Sub(uc.now())
	if ttl <= 0 {
		return nil
	}
	return uc.deps.Revoker.Revoke(ctx, tokenID, ttl)
}

// RequestPasswordReset genera un código de 6 dígitos, lo guarda con caducidad y emite el evento
// de notificación. Para emails desconocidos no hace nada y no lo revela.
func (uc *AuthUseCase) RequestPasswordReset(ctx context.Context, in dto.PasswordResetRequest) error {
	if uc.deps.Codes == nil || uc.deps.Notifier == nil {
		return fmt.Errorf("restablecimiento de contraseña no configurado")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return err
	}
	user, err := uc.deps.Repos.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		uc.log.Debug().Msg("restablecimiento solicitado para email desconocido")
		return nil
	}
	code, err := newResetCode()
	if err != nil {
		return err
	}
	if err := uc.deps.Codes.Save(ctx, email, code); err != nil {
		return fmt.Errorf("guardar código: %w", err)
	}
	if err := uc.deps.Notifier.SendResetCode(ctx, email, code); err != nil {
		return fmt.Errorf("emitir notificación: %w", err)
	}
	uc.log.Info().Str("user_id", user.ID).Msg("código de restablecimiento emitido")
	return nil
}

// ConfirmPasswordReset fija la nueva contraseña si el código es válido. El código se consume.
func (uc *AuthUseCase) ConfirmPasswordReset(ctx context.Context, in dto.PasswordResetConfirmRequest) error {
	if uc.deps.Codes == nil {
		return fmt.Errorf("restablecimiento de contraseña no configurado")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return err
	}
	if err := validatePasswords(in.Password, in.PasswordConfirm); err != nil {
		return err
	}
	user, err := uc.deps.Repos.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: código inválido o caducado", domain.ErrValidation)
	}
	ok, err := uc.deps.Codes.Consume(ctx, email, strings.TrimSpace(in.Code))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: código inválido o caducado", domain.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uc.deps.Repos.Users.UpdatePassword(ctx, user.ID, string(hash))
}

// Me devuelve el usuario autenticado con su empresa activa.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.MeResponse, error) {
	user, err := uc.deps.Repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	profile, err := uc.deps.Repos.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &dto.MeResponse{User: *ToUserResponse(user)}
	if profile.HasActiveCompany() {
		company, err := uc.deps.Repos.Companies.GetByID(ctx, *profile.ActiveCompanyID)
		if err != nil {
			return nil, err
		}
		if company != nil {
			out.ActiveCompany = &dto.CompanyResponse{ID: company.ID, Name: company.Name, Active: true, CreatedAt: company.CreatedAt}
			out.IsCompanyAdmin = profile.IsCompanyAdmin
		}
	}
	return out, nil
}

// ToUserResponse convierte la entidad a DTO (sin hash).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", fmt.Errorf("%w: email requerido", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: email inválido", domain.ErrValidation)
	}
	return email, nil
}

func validatePasswords(password, confirm string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrValidation, MinPasswordLength)
	}
	if password != confirm {
		return fmt.Errorf("%w: las contraseñas no coinciden", domain.ErrValidation)
	}
	return nil
}

func newResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generar código: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

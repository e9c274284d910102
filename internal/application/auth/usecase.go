package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/ecolend-api/internal/application/dto"
	"github.com/jhoicas/ecolend-api/internal/application/usecase"
	"github.com/jhoicas/ecolend-api/internal/domain"
	"github.com/jhoicas/ecolend-api/internal/domain/entity"
	"github.com/jhoicas/ecolend-api/internal/domain/repository"
	"github.com/jhoicas/ecolend-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login y administrador inicial.
type AuthUseCase struct {
	userRepo repository.UserRepository
	users    *usecase.UserUseCase
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, users *usecase.UserUseCase, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, users: users, jwtCfg: jwtCfg}
}

// Login verifica email/password, genera JWT con los roles vigentes y retorna token + usuario.
// Email desconocido y password incorrecto devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	roles, err := uc.userRepo.GetRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, string(user.ID), string(user.Kind), entity.RoleNames(roles), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
		User:      dto.UserFromEntity(user, roles),
	}, nil
}

// BootstrapAdmin crea un usuario ADMIN si email no está vacío y aún no existe.
// Devuelve true solo cuando lo creó.
func (uc *AuthUseCase) BootstrapAdmin(ctx context.Context, email, password, name string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, nil
	}
	if password == "" {
		return false, domain.NewValidationError("Bootstrap admin password is required.")
	}
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	_, err = uc.users.CreateUser(ctx, "", dto.CreateUserRequest{
		Email:       email,
		DisplayName: name,
		Kind:        string(entity.UserKindAdmin),
		Password:    password,
		Roles:       []string{string(entity.RoleAdmin)},
	})
	if errors.Is(err, domain.ErrEmailAlreadyExists) {
		// otra instancia lo creó entre la consulta y el insert
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

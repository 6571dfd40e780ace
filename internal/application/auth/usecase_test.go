package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockbill-api/internal/application/auth"
	"github.com/jhoicas/stockbill-api/internal/application/dto"
	"github.com/jhoicas/stockbill-api/internal/domain"
	"github.com/jhoicas/stockbill-api/internal/infrastructure/memory"
	"github.com/jhoicas/stockbill-api/pkg/jwt"
)

const secret = "secreto-de-prueba"

func newAuth() *auth.AuthUseCase {
	return auth.NewAuthUseCase(memory.NewStore().Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "stockbill-test"})
}

func TestRegister_EmiteTokenConElUsuario(t *testing.T) {
	uc := newAuth()
	out, err := uc.Register(context.Background(), dto.RegisterRequest{Name: " Ana ", Email: " Ana@Example.com ", Password: "password123"})
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", out.User.Email, "el email se normaliza")
	assert.Equal(t, "Ana", out.User.Name)
	claims, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "stockbill-test", claims.Issuer)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()
	_, err := uc.Register(ctx, dto.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = uc.Register(ctx, dto.RegisterRequest{Name: "Ana", Email: "ANA@example.com", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()
	reg, err := uc.Register(ctx, dto.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "password123"})
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "ANA@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, out.User.ID)
	assert.NotEmpty(t, out.Token)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

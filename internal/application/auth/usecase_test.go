package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Cotizador-api/internal/application/auth"
	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/memory"
	"github.com/jhoicas/Cotizador-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	companyID = "company-1"
	secret    = "secreto-de-prueba"
)

func newAuth(t *testing.T) (*auth.AuthUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Companies().Create(context.Background(), &entity.Company{
		ID: companyID, Name: "CCN", TaxID: "CCN010101AAA", Status: "active",
	}))
	uc := auth.NewAuthUseCase(store.Users(), store.Companies(), auth.JWTConfig{
		Secret: secret, ExpMinutes: 60, Issuer: "cotizador-test",
	})
	return uc, store
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterUser_RolPorDefectoYHash(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{
		Email: " Ana@CCN.mx ", Password: "secreta123", CompanyID: companyID,
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@ccn.mx", u.Email)
	assert.Equal(t, entity.RoleCotizador, u.Role)
	assert.Equal(t, "ana@ccn.mx", u.Name)
	assert.Equal(t, "active", u.Status)

	stored, err := store.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "secreta123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreta123")))
}

func TestRegisterUser_Guardas(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{
		Email: "ana@ccn.mx", Password: "secreta123", CompanyID: companyID, Role: entity.RoleAutorizador,
	})
	require.NoError(t, err)

	cases := []struct {
		name string
		in   dto.RegisterRequest
		want error
	}{
		{"email repetido", dto.RegisterRequest{Email: "ANA@ccn.mx", Password: "otra12345", CompanyID: companyID}, domain.ErrEmailAlreadyExists},
		{"password corto", dto.RegisterRequest{Email: "beto@ccn.mx", Password: "corta", CompanyID: companyID}, domain.ErrInvalidInput},
		{"sin email", dto.RegisterRequest{Email: "  ", Password: "secreta123", CompanyID: companyID}, domain.ErrInvalidInput},
		{"empresa inexistente", dto.RegisterRequest{Email: "beto@ccn.mx", Password: "secreta123", CompanyID: "no-existe"}, domain.ErrNotFound},
		{"rol inválido", dto.RegisterRequest{Email: "beto@ccn.mx", Password: "secreta123", CompanyID: companyID, Role: "superusuario"}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.RegisterUser(ctx, tc.in)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_TokenLlevaRolYEmpresa(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{
		Email: "ana@ccn.mx", Password: "secreta123", CompanyID: companyID, Role: entity.RoleAutorizador,
	})
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "ANA@ccn.mx", Password: "secreta123"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, out.User.ID)

	userID, company, role, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.Equal(t, companyID, company)
	assert.Equal(t, entity.RoleAutorizador, role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ana@ccn.mx", Password: "secreta123", CompanyID: companyID})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@ccn.mx", Password: "equivocada"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@ccn.mx", Password: "secreta123"})
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))

	inactivo, err := auth.NewUser(companyID, "baja@ccn.mx", "Baja", entity.RoleCotizador, "secreta123")
	require.NoError(t, err)
	inactivo.Status = "inactive"
	require.NoError(t, store.Users().Create(ctx, inactivo))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "baja@ccn.mx", Password: "secreta123"})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

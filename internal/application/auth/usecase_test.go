package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trufas-inventario-api/internal/application/auth"
	"github.com/jhoicas/trufas-inventario-api/internal/application/dto"
	"github.com/jhoicas/trufas-inventario-api/internal/domain"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
	pkgjwt "github.com/jhoicas/trufas-inventario-api/pkg/jwt"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]entity.User
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = *u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) CountByRole(_ context.Context, role string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

var signer, _ = pkgjwt.NewSigner("test-secret", "test", 5*time.Minute)

func newAuth() (*auth.AuthUseCase, *memUsers) {
	repo := &memUsers{users: map[string]entity.User{}}
	return auth.NewAuthUseCase(repo, signer), repo
}

func TestLogin_CredencialesValidasDevuelveTokenConRol(t *testing.T) {
	uc, _ := newAuth()
	ctx := context.Background()
	_, err := uc.CreateUser(ctx, dto.CreateUserRequest{Email: "Ana@Trufas.example", Password: "truffe-noire", Role: "admin"})
	require.NoError(t, err)

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@trufas.example", Password: "truffe-noire"})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.User.Role)

	claims, err := signer.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestLogin_Errores(t *testing.T) {
	uc, _ := newAuth()
	ctx := context.Background()
	_, err := uc.CreateUser(ctx, dto.CreateUserRequest{Email: "ana@trufas.example", Password: "truffe-noire"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@trufas.example", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@trufas.example", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCreateUser_Validaciones(t *testing.T) {
	uc, _ := newAuth()
	ctx := context.Background()

	_, err := uc.CreateUser(ctx, dto.CreateUserRequest{Email: "no-es-email", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.CreateUser(ctx, dto.CreateUserRequest{Email: "a@b.example", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.CreateUser(ctx, dto.CreateUserRequest{Email: "a@b.example", Password: "12345678", Role: "vendedor"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	u, err := uc.CreateUser(ctx, dto.CreateUserRequest{Email: "a@b.example", Password: "12345678"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStaff, u.Role)
	_, err = uc.CreateUser(ctx, dto.CreateUserRequest{Email: "A@B.example", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestEnsureBootstrapAdmin_SoloSiNoHayAdmin(t *testing.T) {
	uc, repo := newAuth()
	ctx := context.Background()

	require.NoError(t, uc.EnsureBootstrapAdmin(ctx, "", ""))
	assert.Empty(t, repo.users)

	require.NoError(t, uc.EnsureBootstrapAdmin(ctx, "root@trufas.example", "cambiar-ya"))
	require.NoError(t, uc.EnsureBootstrapAdmin(ctx, "otro@trufas.example", "cambiar-ya"))
	n, _ := repo.CountByRole(ctx, entity.RoleAdmin)
	assert.Equal(t, 1, n)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, repo := newAuth()
	ctx := context.Background()
	u, err := uc.CreateUser(ctx, dto.CreateUserRequest{Email: "luc@trufas.example", Password: "truffe-noire"})
	require.NoError(t, err)

	repo.mu.Lock()
	stored := repo.users[u.ID]
	stored.Status = entity.UserStatusInactive
	repo.users[u.ID] = stored
	repo.mu.Unlock()

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "luc@trufas.example", Password: "truffe-noire"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

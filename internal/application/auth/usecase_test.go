package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/stock-ledger/internal/application/auth"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	pkgjwt "github.com/tu-usuario/stock-ledger/pkg/jwt"
)

// fakeUserRepo repo de usuarios en memoria indexado por email.
type fakeUserRepo struct {
	byEmail map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*entity.User{}}
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	cp := *u
	r.byEmail[u.Email] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(username string) (*entity.User, error) {
	for _, u := range r.byEmail {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(u *entity.User) error {
	cp := *u
	r.byEmail[u.Email] = &cp
	return nil
}

func testJWTConfig() auth.JWTConfig {
	return auth.JWTConfig{Secret: "secret-de-test", ExpMinutes: 60, Issuer: "stock-ledger-test"}
}

func TestRegister_CreaUsuarioConRolUserYHashBcrypt(t *testing.T) {
	repo := newFakeUserRepo()
	uc := auth.NewAuthUseCase(repo, testJWTConfig())

	resp, err := uc.Register(dto.RegisterRequest{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "supersecreta",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, resp.Role, "los registros públicos siempre nacen con rol USER")
	assert.NotEmpty(t, resp.ID)

	stored, _ := repo.GetByEmail("jdoe@example.com")
	require.NotNil(t, stored)
	assert.NotEqual(t, "supersecreta", stored.PasswordHash, "el password nunca se guarda en claro")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("supersecreta")))
}

func TestRegister_EmailDuplicado(t *testing.T) {
	repo := newFakeUserRepo()
	uc := auth.NewAuthUseCase(repo, testJWTConfig())

	_, err := uc.Register(dto.RegisterRequest{Username: "a", Email: "dup@example.com", Password: "12345678"})
	require.NoError(t, err)

	_, err = uc.Register(dto.RegisterRequest{Username: "b", Email: "dup@example.com", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin_TokenLlevaClaimsDelUsuario(t *testing.T) {
	repo := newFakeUserRepo()
	cfg := testJWTConfig()
	uc := auth.NewAuthUseCase(repo, cfg)

	_, err := uc.Register(dto.RegisterRequest{Username: "jdoe", Email: "jdoe@example.com", Password: "supersecreta"})
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{Email: "jdoe@example.com", Password: "supersecreta"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)

	userID, username, role, err := pkgjwt.Parse(cfg.Secret, resp.AccessToken)
	require.NoError(t, err)
	assert.NotEmpty(t, userID)
	assert.Equal(t, "jdoe", username)
	assert.Equal(t, entity.RoleUser, role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	repo := newFakeUserRepo()
	uc := auth.NewAuthUseCase(repo, testJWTConfig())

	_, err := uc.Register(dto.RegisterRequest{Username: "jdoe", Email: "jdoe@example.com", Password: "supersecreta"})
	require.NoError(t, err)

	// Password incorrecto
	_, err = uc.Login(dto.LoginRequest{Email: "jdoe@example.com", Password: "otra-cosa"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// Email inexistente: mismo error, sin revelar cuál de los dos falló
	_, err = uc.Login(dto.LoginRequest{Email: "nadie@example.com", Password: "supersecreta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

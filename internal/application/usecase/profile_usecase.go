package usecase

import (
	"fmt"
	"time"

	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
	"golang.org/x/crypto/bcrypt"
)

// ProfileUseCase lectura y edición del propio perfil.
type ProfileUseCase struct {
	userRepo repository.UserRepository
}

// NewProfileUseCase construye el caso de uso.
func NewProfileUseCase(userRepo repository.UserRepository) *ProfileUseCase {
	return &ProfileUseCase{userRepo: userRepo}
}

// Get devuelve el perfil del usuario autenticado.
func (uc *ProfileUseCase) Get(userID string) (*dto.ProfileResponse, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toProfileResponse(user), nil
}

// Update actualiza username, email y/o password del propio usuario.
// Sin campos a actualizar devuelve ErrInvalidInput; email o username ya en uso
// por otro usuario fallan con ErrEmailAlreadyExists / ErrUsernameTaken.
func (uc *ProfileUseCase) Update(userID string, in dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	if in.Username == nil && in.Email == nil && in.Password == nil {
		return nil, fmt.Errorf("%w: nada que actualizar", domain.ErrInvalidInput)
	}
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	if in.Email != nil {
		other, err := uc.userRepo.GetByEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != userID {
			return nil, domain.ErrEmailAlreadyExists
		}
		user.Email = *in.Email
	}
	if in.Username != nil {
		other, err := uc.userRepo.GetByUsername(*in.Username)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != userID {
			return nil, domain.ErrUsernameTaken
		}
		user.Username = *in.Username
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}
	return toProfileResponse(user), nil
}

func toProfileResponse(u *entity.User) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

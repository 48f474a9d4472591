package usecase

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"youchat/internal/pkg/state"
	"youchat/pkg/security"

	apperrors "youchat/pkg/errors"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 8

type RegisterUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterUserUseCase struct {
	Store *state.Store
}

func NewRegisterUserUseCase(store *state.Store) *RegisterUserUseCase {
	return &RegisterUserUseCase{Store: store}
}

func (uc *RegisterUserUseCase) Execute(in RegisterUserInput) (*state.UserSummary, error) {
	name := security.SanitizeInput(in.Name)
	if name == "" {
		return nil, apperrors.InvalidArg("name is required")
	}
	email := state.NormalizeEmail(in.Email)
	if !emailPattern.MatchString(email) {
		return nil, apperrors.InvalidArg("a valid email address is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperrors.InvalidArg("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to hash password", err)
	}

	var summary state.UserSummary
	err = uc.Store.Update(func(d *state.Document) error {
		for _, u := range d.Users {
			if state.NormalizeEmail(u.Email) == email {
				return apperrors.AlreadyExists("an account with this email already exists")
			}
		}
		now := time.Now().UTC()
		u := &state.User{
			ID:           uuid.NewString(),
			Name:         name,
			Email:        email,
			PasswordHash: string(hash),
			Friends:      []string{},
			Roles:        []string{"user"},
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		d.Users = append(d.Users, u)
		summary = u.Summary()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

package usecase

import (
	"golang.org/x/crypto/bcrypt"

	"youchat/internal/pkg/mfa"
	"youchat/internal/pkg/state"

	apperrors "youchat/pkg/errors"
)

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult always requires the second factor. MfaCode is populated only
// when the debug echo flag is on; production responses leave it empty.
type LoginResult struct {
	RequiresMfa bool   `json:"requiresMfa"`
	ChallengeID string `json:"challengeId"`
	MfaCode     string `json:"mfaCode,omitempty"`
}

type LoginUseCase struct {
	Store      *state.Store
	Challenges *mfa.Store
	EchoCode   bool
}

func NewLoginUseCase(store *state.Store, challenges *mfa.Store, echoCode bool) *LoginUseCase {
	return &LoginUseCase{Store: store, Challenges: challenges, EchoCode: echoCode}
}

func (uc *LoginUseCase) Execute(in LoginInput) (*LoginResult, error) {
	u, ok := uc.Store.UserByEmail(in.Email)
	if !ok {
		return nil, apperrors.ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredential
	}

	challengeID, code, err := uc.Challenges.Issue(u)
	if err != nil {
		// Challenge stays valid even when delivery failed; surface the
		// delivery error so the client can offer a retry.
		return nil, err
	}

	result := &LoginResult{RequiresMfa: true, ChallengeID: challengeID}
	if uc.EchoCode {
		result.MfaCode = code
	}
	return result, nil
}

package usecase

import (
	"youchat/internal/pkg/mfa"
	"youchat/internal/pkg/state"
	"youchat/internal/pkg/user/auth"
)

type VerifyMfaInput struct {
	ChallengeID string `json:"challengeId"`
	Code        string `json:"code"`
}

type VerifyMfaResult struct {
	Token string            `json:"token"`
	User  state.UserSummary `json:"user"`
}

type VerifyMfaUseCase struct {
	Challenges *mfa.Store
	Tokens     *auth.TokenService
}

func NewVerifyMfaUseCase(challenges *mfa.Store, tokens *auth.TokenService) *VerifyMfaUseCase {
	return &VerifyMfaUseCase{Challenges: challenges, Tokens: tokens}
}

func (uc *VerifyMfaUseCase) Execute(in VerifyMfaInput) (*VerifyMfaResult, error) {
	u, err := uc.Challenges.Verify(in.ChallengeID, in.Code)
	if err != nil {
		return nil, err
	}
	token, err := uc.Tokens.Generate(u)
	if err != nil {
		return nil, err
	}
	return &VerifyMfaResult{Token: token, User: u.Summary()}, nil
}

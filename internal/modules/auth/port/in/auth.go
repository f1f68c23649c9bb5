package in

import (
	"context"

	"confetti/internal/modules/auth/domain"
	"confetti/internal/modules/auth/dto"
)

type Usecase interface {
	SignIn(ctx context.Context, input dto.SignInInput) (dto.UserOutput, error)
	SignOut(ctx context.Context) error
	Current(ctx context.Context) (domain.User, error)
}

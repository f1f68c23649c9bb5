package usecase

import (
	"context"

	"confetti/internal/modules/auth/domain"
	"confetti/internal/modules/auth/dto"
	authin "confetti/internal/modules/auth/port/in"
	"confetti/internal/modules/auth/service"
)

type Interactor struct {
	svc *service.AuthService
}

func NewInteractor(svc *service.AuthService) authin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) SignIn(ctx context.Context, input dto.SignInInput) (dto.UserOutput, error) {
	user, err := i.svc.SignIn(ctx, input.DisplayName, input.Email)
	if err != nil {
		return dto.UserOutput{}, err
	}
	return dto.UserOutput{UID: user.UID, DisplayName: user.DisplayName, Email: user.Email}, nil
}

func (i *Interactor) SignOut(ctx context.Context) error {
	return i.svc.SignOut(ctx)
}

func (i *Interactor) Current(ctx context.Context) (domain.User, error) {
	return i.svc.Current(ctx)
}

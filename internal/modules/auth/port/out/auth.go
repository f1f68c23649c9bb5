package out

import (
	"context"

	"confetti/internal/modules/auth/domain"
)

type UserStore interface {
	Save(ctx context.Context, user domain.User) error
	Load(ctx context.Context) (domain.User, error)
	Clear(ctx context.Context) error
}

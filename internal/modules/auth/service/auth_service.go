package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"confetti/internal/modules/auth/domain"
	authout "confetti/internal/modules/auth/port/out"
	"confetti/internal/platform/clock"
	apperrors "confetti/internal/platform/errors"
	"confetti/internal/platform/id"
)

type AuthService struct {
	clock  clock.Clock
	idGen  id.Generator
	store  authout.UserStore
	logger *slog.Logger
}

func NewAuthService(clock clock.Clock, idGen id.Generator, store authout.UserStore, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{clock: clock, idGen: idGen, store: store, logger: logger}
}

// SignIn replaces any current user with a freshly identified one.
func (s *AuthService) SignIn(ctx context.Context, displayName, email string) (domain.User, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return domain.User{}, fmt.Errorf("%w: display name is required", apperrors.ErrInvalidInput)
	}
	email = strings.TrimSpace(email)
	if email != "" && !strings.Contains(email, "@") {
		return domain.User{}, fmt.Errorf("%w: malformed email %q", apperrors.ErrInvalidInput, email)
	}
	user := domain.User{
		UID:         s.idGen.New(),
		DisplayName: displayName,
		Email:       email,
		SignedInAt:  s.clock.Now(),
	}
	if user.UID == "" {
		return domain.User{}, fmt.Errorf("generate user id: empty id")
	}
	if err := s.store.Save(ctx, user); err != nil {
		return domain.User{}, err
	}
	s.logger.Info("signed in", "uid", user.UID)
	return user, nil
}

func (s *AuthService) SignOut(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.logger.Info("signed out")
	return nil
}

func (s *AuthService) Current(ctx context.Context) (domain.User, error) {
	return s.store.Load(ctx)
}

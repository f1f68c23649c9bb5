package in

import (
	"context"
	"errors"

	authdto "confetti/internal/modules/auth/dto"
	authin "confetti/internal/modules/auth/port/in"
	apperrors "confetti/internal/platform/errors"
)

type CLIHandler struct {
	usecase authin.Usecase
}

func NewCLIHandler(usecase authin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) SignIn(ctx context.Context, name, email string) (authdto.UserOutput, error) {
	return h.usecase.SignIn(ctx, authdto.SignInInput{DisplayName: name, Email: email})
}

func (h CLIHandler) SignOut(ctx context.Context) error {
	return h.usecase.SignOut(ctx)
}

// WhoAmI reports the current user; signed out is not an error here.
func (h CLIHandler) WhoAmI(ctx context.Context) (authdto.UserOutput, bool, error) {
	user, err := h.usecase.Current(ctx)
	if errors.Is(err, apperrors.ErrNotSignedIn) {
		return authdto.UserOutput{}, false, nil
	}
	if err != nil {
		return authdto.UserOutput{}, false, err
	}
	return authdto.UserOutput{UID: user.UID, DisplayName: user.DisplayName, Email: user.Email}, true, nil
}

// UserID is the bookmark owner id: empty when signed out.
func (h CLIHandler) UserID(ctx context.Context) (string, error) {
	out, ok, err := h.WhoAmI(ctx)
	if err != nil || !ok {
		return "", err
	}
	return out.UID, nil
}

package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/devlinks/internal/domain/user"
	"github.com/khoahotran/devlinks/pkg/apperror"
	"github.com/khoahotran/devlinks/pkg/auth"
	"github.com/khoahotran/devlinks/pkg/logger"
)

const MinPasswordLength = 8

type SignupUseCase struct {
	userRepo user.Repository
	login    *LoginUseCase
	validate *validator.Validate
	logger   logger.Logger
}

func NewSignupUseCase(repo user.Repository, jwtSvc *auth.JWTService, log logger.Logger) *SignupUseCase {
	return &SignupUseCase{
		userRepo: repo,
		login:    NewLoginUseCase(repo, jwtSvc, log),
		validate: validator.New(),
		logger:   log,
	}
}

type SignupInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

// Execute registers the account and signs it in.
func (uc *SignupUseCase) Execute(ctx context.Context, input SignupInput) (*LoginOutput, error) {
	ctx, span := tracer.Start(ctx, "Signup")
	defer span.End()

	input.Email = strings.TrimSpace(input.Email)
	if err := uc.validate.Struct(input); err != nil {
		fields := map[string]string{}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				switch fe.Field() {
				case "Email":
					fields["email"] = "Invalid email address"
				case "Password":
					fields["password"] = "Please check again"
				}
			}
		}
		return nil, apperror.NewValidation(fields)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return nil, apperror.NewConflict("user", "email", input.Email)
		}
		span.RecordError(err)
		uc.logger.Error("Failed to create user", err)
		return nil, apperror.NewInternal("failed to create user", err)
	}
	span.SetAttributes(attribute.String("user_id", u.ID.String()))
	uc.logger.Info("User registered", zap.String("user_id", u.ID.String()))

	return uc.login.Execute(ctx, LoginInput{Email: input.Email, Password: input.Password})
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/hope-sync-api/services/hope-sync/internal/model"
	"github.com/vasapolrittideah/hope-sync-api/services/hope-sync/internal/repository"
	"github.com/vasapolrittideah/hope-sync-api/shared/security"
)

// AuthUsecase defines the interface for authentication-related use cases.
type AuthUsecase interface {
	// Register stores a new user. No token is issued.
	Register(ctx context.Context, params RegisterParams) error

	// Login checks the credentials and returns a signed access token.
	Login(ctx context.Context, params LoginParams) (string, error)
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// TokenGenerator signs access tokens for a user email.
type TokenGenerator interface {
	GenerateToken(email string) (string, error)
}

// WelcomeMailer delivers the registration email.
type WelcomeMailer interface {
	SendHTML(to []string, subject, htmlBody string) error
}

type authUsecase struct {
	userRepo repository.UserRepository
	hasher   security.PasswordHasher
	tokens   TokenGenerator
	mailer   WelcomeMailer
	logger   *zerolog.Logger
}

// NewAuthUsecase creates a new instance of AuthUsecase. mailer may be nil, in
// which case no welcome email is sent.
func NewAuthUsecase(
	userRepo repository.UserRepository,
	hasher security.PasswordHasher,
	tokens TokenGenerator,
	mailer WelcomeMailer,
	logger *zerolog.Logger,
) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		mailer:   mailer,
		logger:   logger,
	}
}

func (u *authUsecase) Register(ctx context.Context, params RegisterParams) error {
	_, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err == nil {
		return ErrUserAlreadyExists
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	passwordHash, err := u.hasher.HashPassword(params.Password)
	if err != nil {
		return err
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		// Lost a race against a concurrent registration of the same email.
		if mongo.IsDuplicateKeyError(err) {
			return ErrUserAlreadyExists
		}

		return fmt.Errorf("failed to create user: %w", err)
	}

	u.sendWelcomeEmail(user)

	return nil
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (string, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrInvalidCredentials
		}

		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if ok, err := u.hasher.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		return "", fmt.Errorf("failed to verify password: %w", err)
	} else if !ok {
		return "", ErrInvalidCredentials
	}

	token, err := u.tokens.GenerateToken(user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return token, nil
}

func (u *authUsecase) sendWelcomeEmail(user *model.User) {
	if u.mailer == nil {
		return
	}

	htmlBody := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Thank you for joining Hope Sync. Your account has been created and you can now sign in with %s.</p>
		<p>Every donation, comment and hour volunteered makes a difference.</p>

		<p>Thank you,</p>
		<p>Hope Sync Team</p>
	`, html.EscapeString(user.Name), html.EscapeString(user.Email))

	if err := u.mailer.SendHTML([]string{user.Email}, "Welcome to Hope Sync", htmlBody); err != nil {
		u.logger.Error().Err(err).Str("user_id", user.ID.Hex()).Msg("failed to send welcome email")
	}
}

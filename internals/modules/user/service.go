package user

import (
	"context"
	"healthwatch/internals/security"
	"healthwatch/pkg/apperror"
	"healthwatch/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Store interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

// AddressRemover clears out everything a user watches before the account goes.
type AddressRemover interface {
	RemoveOwner(ctx context.Context, ownerID uuid.UUID) error
}

type Service struct {
	repo      Store
	tokens    *security.TokenService
	addresses AddressRemover
	validator *validator.Validate
	logger    *zerolog.Logger
}

func NewService(repo Store, tokens *security.TokenService, addresses AddressRemover, v *validator.Validate, logger *zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		tokens:    tokens,
		addresses: addresses,
		validator: v,
		logger:    logger,
	}
}

func (s *Service) Register(ctx context.Context, cmd RegisterCmd) (uuid.UUID, error) {
	const op string = "service.user.register"

	if err := s.validate(op, cmd); err != nil {
		return uuid.UUID{}, err
	}

	_, err := s.repo.GetUserByEmail(ctx, cmd.Email)
	switch {
	case err == nil:
		return uuid.UUID{}, emailTaken(op)
	case !apperror.IsKind(err, apperror.NotFound):
		return uuid.UUID{}, err
	}

	hash, err := security.HashPassword(cmd.Password)
	if err != nil {
		return uuid.UUID{}, apperror.New(apperror.Internal, op, err)
	}

	id, err := s.repo.CreateUser(ctx, cmd.Name, cmd.Email, hash)
	if err != nil {
		// lost a race with another registration for the same email
		if apperror.IsKind(err, apperror.BusinessRule) {
			return uuid.UUID{}, emailTaken(op)
		}
		return uuid.UUID{}, err
	}

	s.logger.Info().Str("user_id", id.String()).Msg("user registered")
	return id, nil
}

func (s *Service) LogIn(ctx context.Context, cmd LogInCmd) (LogInResult, error) {
	const op string = "service.user.log_in"

	if err := s.validate(op, cmd); err != nil {
		return LogInResult{}, err
	}

	u, err := s.repo.GetUserByEmail(ctx, cmd.Email)
	if err != nil {
		if apperror.IsKind(err, apperror.NotFound) {
			return LogInResult{}, badCredentials(op)
		}
		return LogInResult{}, err
	}

	ok, err := security.ComparePassword(cmd.Password, u.PasswordHash)
	if err != nil {
		return LogInResult{}, apperror.New(apperror.Internal, op, err)
	}
	if !ok {
		return LogInResult{}, badCredentials(op)
	}

	return s.issueTokens(op, u)
}

// Refresh validates a refresh token and issues a new pair for its user. A
// user deleted since the token was issued is NotFound.
func (s *Service) Refresh(ctx context.Context, cmd RefreshCmd) (LogInResult, error) {
	const op string = "service.user.refresh"

	if err := s.validate(op, cmd); err != nil {
		return LogInResult{}, err
	}

	claims, err := s.tokens.ValidateRefreshToken(cmd.RefreshToken)
	if err != nil {
		return LogInResult{}, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return LogInResult{}, &apperror.Error{Kind: apperror.Unauthorised, Op: op, Err: err, Message: "invalid token"}
	}

	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return LogInResult{}, err
	}

	return s.issueTokens(op, u)
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// Delete removes the user and every address they watch. Deleting an unknown
// user is not an error.
func (s *Service) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.addresses.RemoveOwner(ctx, userID); err != nil {
		return err
	}
	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", userID.String()).Msg("user deleted")
	return nil
}

// Exists lets the address service check an owner before registering an address.
func (s *Service) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, userID)
}

// EmailOf is where status-change notifications for userID are sent.
func (s *Service) EmailOf(ctx context.Context, userID uuid.UUID) (string, error) {
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.Email, nil
}

func (s *Service) issueTokens(op string, u User) (LogInResult, error) {
	access, err := s.tokens.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return LogInResult{}, apperror.New(apperror.Internal, op, err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(u.ID, u.Email)
	if err != nil {
		return LogInResult{}, apperror.New(apperror.Internal, op, err)
	}

	return LogInResult{UserID: u.ID, AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) validate(op string, cmd any) error {
	if err := s.validator.Struct(cmd); err != nil {
		return &apperror.Error{
			Kind:    apperror.InvalidInput,
			Op:      op,
			Err:     err,
			Message: "invalid request",
			Fields:  utils.ValidationFields(err),
		}
	}
	return nil
}

func emailTaken(op string) error {
	return &apperror.Error{
		Kind:    apperror.BusinessRule,
		Op:      op,
		Message: "email already registered",
	}
}

func badCredentials(op string) error {
	return &apperror.Error{
		Kind:    apperror.Unauthorised,
		Op:      op,
		Message: "invalid email or password",
	}
}

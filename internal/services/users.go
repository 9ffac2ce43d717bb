package services

import (
	"context"
	"errors"

	"github.com/sbilibin2017/auction-live/internal/auctionerrors"
	"github.com/sbilibin2017/auction-live/internal/logger"
	"github.com/sbilibin2017/auction-live/internal/models"
	"github.com/sbilibin2017/auction-live/internal/repositories"
	"github.com/sbilibin2017/auction-live/internal/validators"
)

// UserService handles registration, authentication and account management.
type UserService struct {
	repo   UserRepository
	tokens TokenManager
	hasher PasswordHasher
}

// NewUserService creates a new UserService instance.
func NewUserService(repo UserRepository, tokens TokenManager, hasher PasswordHasher) *UserService {
	return &UserService{
		repo:   repo,
		tokens: tokens,
		hasher: hasher,
	}
}

// Register creates a user with a hashed password and the default role.
func (svc *UserService) Register(ctx context.Context, name, surname, email, password string) error {
	if err := validators.First(
		validators.NotBlank("name", name),
		validators.NotBlank("surname", surname),
		validators.NotBlank("email", email),
		validators.NotBlank("password", password),
		validators.Email(email),
	); err != nil {
		return err
	}

	_, err := svc.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		logger.Log.Warnw("user already exists", "email", email)
		return auctionerrors.UserEmailExists(email)
	case !errors.Is(err, repositories.ErrNotFound):
		logger.Log.Errorw("failed to check user exists", "err", err)
		return err
	}

	hash, err := svc.hasher.Hash(password)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	_, err = svc.repo.Create(ctx, models.User{
		Name:     name,
		Surname:  surname,
		Email:    email,
		Password: hash,
		Role:     models.DefaultRole,
	})
	if errors.Is(err, repositories.ErrDuplicate) {
		return auctionerrors.UserEmailExists(email)
	}
	if err != nil {
		logger.Log.Errorw("failed to save user", "err", err)
		return err
	}
	return nil
}

// Authenticate checks the credentials and returns a token whose subject is the user id.
func (svc *UserService) Authenticate(ctx context.Context, email, password string) (string, error) {
	if err := validators.First(
		validators.NotBlank("email", email),
		validators.NotBlank("password", password),
		validators.Email(email),
	); err != nil {
		return "", err
	}

	user, err := svc.repo.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", auctionerrors.UserEmailNotFound(email)
	}
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}

	if !svc.hasher.Verify(password, user.Password) {
		logger.Log.Warnw("invalid credentials", "email", email)
		return "", auctionerrors.WrongCredentials()
	}

	token, err := svc.tokens.Generate(ctx, user.ID)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return "", err
	}
	return token, nil
}

// Retrieve returns the profile of the token's user.
func (svc *UserService) Retrieve(ctx context.Context, token string) (models.UserProfile, error) {
	user, err := svc.userFromToken(ctx, token)
	if err != nil {
		return models.UserProfile{}, err
	}
	return user.Profile(), nil
}

// Update applies the provided fields to the token's user.
func (svc *UserService) Update(ctx context.Context, token string, upd models.UserUpdate) error {
	user, err := svc.userFromToken(ctx, token)
	if err != nil {
		return err
	}

	var checks []error
	if upd.Name != nil {
		checks = append(checks, validators.NotBlank("name", *upd.Name))
	}
	if upd.Surname != nil {
		checks = append(checks, validators.NotBlank("surname", *upd.Surname))
	}
	if upd.Email != nil {
		checks = append(checks, validators.NotBlank("email", *upd.Email), validators.Email(*upd.Email))
	}
	if upd.Password != nil {
		checks = append(checks, validators.NotBlank("password", *upd.Password))
	}
	if err := validators.First(checks...); err != nil {
		return err
	}

	if upd.Email != nil && *upd.Email != user.Email {
		_, err := svc.repo.GetByEmail(ctx, *upd.Email)
		switch {
		case err == nil:
			return auctionerrors.EmailExists(*upd.Email)
		case !errors.Is(err, repositories.ErrNotFound):
			logger.Log.Errorw("failed to check email", "err", err)
			return err
		}
		user.Email = *upd.Email
	}
	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.Surname != nil {
		user.Surname = *upd.Surname
	}
	if upd.Password != nil {
		hash, err := svc.hasher.Hash(*upd.Password)
		if err != nil {
			logger.Log.Errorw("failed to hash password", "err", err)
			return err
		}
		user.Password = hash
	}

	_, err = svc.repo.Update(ctx, user)
	switch {
	case errors.Is(err, repositories.ErrDuplicate):
		return auctionerrors.EmailExists(user.Email)
	case errors.Is(err, repositories.ErrNotFound):
		return auctionerrors.UserIDNotFound(user.ID)
	case err != nil:
		logger.Log.Errorw("failed to update user", "err", err)
		return err
	}
	return nil
}

// Delete removes the token's user once email and password are confirmed.
func (svc *UserService) Delete(ctx context.Context, token, email, password string) error {
	user, err := svc.userFromToken(ctx, token)
	if err != nil {
		return err
	}

	if err := validators.First(
		validators.NotBlank("email", email),
		validators.NotBlank("password", password),
	); err != nil {
		return err
	}

	if email != user.Email || !svc.hasher.Verify(password, user.Password) {
		logger.Log.Warnw("invalid credentials on delete", "user_id", user.ID)
		return auctionerrors.WrongCredentials()
	}

	err = svc.repo.Delete(ctx, user.ID)
	if errors.Is(err, repositories.ErrNotFound) {
		return auctionerrors.UserIDNotFound(user.ID)
	}
	if err != nil {
		logger.Log.Errorw("failed to delete user", "err", err)
		return err
	}
	return nil
}

func (svc *UserService) userFromToken(ctx context.Context, token string) (models.User, error) {
	userID, err := svc.tokens.GetUserID(ctx, token)
	if err != nil {
		return models.User{}, auctionerrors.InvalidToken(err)
	}

	user, err := svc.repo.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) || errors.Is(err, repositories.ErrInvalidID) {
		return models.User{}, auctionerrors.UserIDNotFound(userID)
	}
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return models.User{}, err
	}
	return user, nil
}

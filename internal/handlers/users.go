package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/auction-live/internal/models"
	"github.com/sbilibin2017/auction-live/internal/validators"
)

//go:generate mockgen -source=users.go -destination=mock_users.go -package=handlers

// Registerer defines the interface that the service must implement.
type Registerer interface {
	Register(ctx context.Context, name, surname, email, password string) error
}

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (string, error)
}

// ProfileRetriever returns the profile of a token's user.
type ProfileRetriever interface {
	Retrieve(ctx context.Context, token string) (models.UserProfile, error)
}

// ProfileUpdater updates the token's user.
type ProfileUpdater interface {
	Update(ctx context.Context, token string, upd models.UserUpdate) error
}

// AccountDeleter deletes the token's user.
type AccountDeleter interface {
	Delete(ctx context.Context, token, email, password string) error
}

// RegisterRequest represents the JSON body for user registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Name
	// required: true
	// default: Peter
	Name *string `json:"name"`

	// Surname
	// required: true
	// default: Parker
	Surname *string `json:"surname"`

	// Email
	// required: true
	// default: peter@parker.com
	Email *string `json:"email"`

	// Password
	// required: true
	// default: Peter1234
	Password *string `json:"password"`
}

// AuthRequest represents the JSON body for authentication
// swagger:model AuthRequest
type AuthRequest struct {
	// Email
	// required: true
	// default: peter@parker.com
	Email *string `json:"email"`

	// Password
	// required: true
	// default: Peter1234
	Password *string `json:"password"`
}

// AuthResponse represents a successful authentication response
// swagger:model AuthResponse
type AuthResponse struct {
	// JWT token
	// default: JWT_TOKEN
	Token string `json:"token"`
}

// UpdateUserRequest represents the JSON body for a profile update; absent fields are left untouched
// swagger:model UpdateUserRequest
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Surname  *string `json:"surname"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// DeleteUserRequest represents the JSON body confirming an account deletion
// swagger:model DeleteUserRequest
type DeleteUserRequest = AuthRequest

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a new user account. E-mail has to be unique. Password is hashed before storing.
// @Tags users
// @Accept json
// @Produce json
// @Param registerRequest body handlers.RegisterRequest true "User registration request"
// @Success 201 {object} handlers.MessageResponse "User successfully registered"
// @Failure 400 {object} handlers.ErrorResponse "Missing, empty or malformed field"
// @Failure 409 {object} handlers.ErrorResponse "E-mail already registered"
// @Router /users [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		if err := validators.First(
			validators.Required("name", req.Name),
			validators.Required("surname", req.Surname),
			validators.Required("email", req.Email),
			validators.Required("password", req.Password),
		); err != nil {
			writeError(w, r, err)
			return
		}

		if err := svc.Register(r.Context(), *req.Name, *req.Surname, *req.Email, *req.Password); err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, MessageResponse{Message: "Ok, user registered."})
	}
}

// NewAuthHandler returns an HTTP handler for user authentication.
// @Summary Authenticate user
// @Description Checks the credentials and returns a JWT token whose subject is the user id
// @Tags users
// @Accept json
// @Produce json
// @Param authRequest body handlers.AuthRequest true "Credentials"
// @Success 200 {object} handlers.AuthResponse "JWT token returned"
// @Failure 400 {object} handlers.ErrorResponse "Missing, empty or malformed field"
// @Failure 401 {object} handlers.ErrorResponse "Wrong credentials"
// @Failure 404 {object} handlers.ErrorResponse "Unknown e-mail"
// @Router /auth [post]
func NewAuthHandler(svc Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AuthRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		if err := validators.First(
			validators.Required("email", req.Email),
			validators.Required("password", req.Password),
		); err != nil {
			writeError(w, r, err)
			return
		}

		token, err := svc.Authenticate(r.Context(), *req.Email, *req.Password)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, AuthResponse{Token: token})
	}
}

// NewRetrieveUserHandler returns an HTTP handler returning the caller's profile.
// @Summary Get user profile
// @Description Returns name, surname, e-mail, role and the items the user bid on
// @Tags users
// @Produce json
// @Success 200 {object} models.UserProfile "User profile"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "User does not exist"
// @Router /users [get]
// @Security BearerAuth
func NewRetrieveUserHandler(svc ProfileRetriever) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := svc.Retrieve(r.Context(), bearerToken(r))
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, profile)
	}
}

// NewUpdateUserHandler returns an HTTP handler updating the caller's profile.
// @Summary Update user profile
// @Description Applies the supplied fields; a new password is re-hashed
// @Tags users
// @Accept json
// @Produce json
// @Param updateUserRequest body handlers.UpdateUserRequest true "Fields to change"
// @Success 200 {object} handlers.MessageResponse "User updated"
// @Failure 400 {object} handlers.ErrorResponse "Empty or malformed field"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 409 {object} handlers.ErrorResponse "E-mail already registered"
// @Router /users [patch]
// @Security BearerAuth
func NewUpdateUserHandler(svc ProfileUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateUserRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		err := svc.Update(r.Context(), bearerToken(r), models.UserUpdate{
			Name:     req.Name,
			Surname:  req.Surname,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: "Ok, user updated."})
	}
}

// NewDeleteUserHandler returns an HTTP handler deleting the caller's account.
// @Summary Delete user
// @Description Deletes the account once e-mail and password are confirmed
// @Tags users
// @Accept json
// @Produce json
// @Param deleteUserRequest body handlers.DeleteUserRequest true "Credentials"
// @Success 200 {object} handlers.MessageResponse "User deleted"
// @Failure 400 {object} handlers.ErrorResponse "Missing or empty field"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized or wrong credentials"
// @Failure 404 {object} handlers.ErrorResponse "User does not exist"
// @Router /users [delete]
// @Security BearerAuth
func NewDeleteUserHandler(svc AccountDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DeleteUserRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		if err := validators.First(
			validators.Required("email", req.Email),
			validators.Required("password", req.Password),
		); err != nil {
			writeError(w, r, err)
			return
		}

		if err := svc.Delete(r.Context(), bearerToken(r), *req.Email, *req.Password); err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: "Ok, user deleted."})
	}
}

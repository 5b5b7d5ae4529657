package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/sweetshop/app/services"
	"github.com/shashiranjanraj/sweetshop/pkg/bind"
	"github.com/shashiranjanraj/sweetshop/pkg/middleware"
	"github.com/shashiranjanraj/sweetshop/pkg/response"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController() *AuthController {
	return &AuthController{service: services.NewAuthService()}
}

type credentialsInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Register creates a new (non-admin) account.
// POST /api/auth/register
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in credentialsInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.service.Register(in.Email, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			response.BadRequest(w, err.Error())
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not create account")
		return
	}

	response.Created(w, map[string]interface{}{
		"id":    user.ID,
		"email": user.Email,
	})
}

// Login verifies credentials and returns a bearer token.
// POST /api/auth/login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in credentialsInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	token, err := c.service.Login(in.Email, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.Unauthorized(w, err.Error())
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not log in")
		return
	}

	response.Success(w, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// Me returns the authenticated account.
// GET /api/auth/me
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	user, err := c.service.Me(userID)
	if err != nil {
		response.Unauthorized(w)
		return
	}

	response.Success(w, user)
}

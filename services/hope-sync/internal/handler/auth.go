package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/hope-sync-api/services/hope-sync/internal/payload"
	"github.com/vasapolrittideah/hope-sync-api/services/hope-sync/internal/usecase"
	"github.com/vasapolrittideah/hope-sync-api/shared/security"
	"github.com/vasapolrittideah/hope-sync-api/shared/utilities"
)

const invalidCredentialsMessage = "Invalid email or password"

type authHTTPHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *requestValidator
	logger      *zerolog.Logger
}

func newAuthHTTPHandler(authUsecase usecase.AuthUsecase, validator *requestValidator, logger *zerolog.Logger) *authHTTPHandler {
	return &authHTTPHandler{
		authUsecase: authUsecase,
		validator:   validator,
		logger:      logger,
	}
}

func (h *authHTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req payload.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utilities.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		utilities.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.authUsecase.Register(r.Context(), usecase.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserAlreadyExists):
			utilities.WriteJSON(w, http.StatusBadRequest, payload.RegisterResponse{
				Success: false,
				Message: "User already exists",
			})
		case errors.Is(err, security.ErrPasswordTooLong):
			utilities.WriteMessage(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error().Err(err).Msg("failed to register user")
			utilities.WriteMessage(w, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}

	utilities.WriteJSON(w, http.StatusCreated, payload.RegisterResponse{
		Success: true,
		Message: "User registered successfully",
	})
}

func (h *authHTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utilities.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		utilities.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			utilities.WriteMessage(w, http.StatusUnauthorized, invalidCredentialsMessage)
			return
		}

		h.logger.Error().Err(err).Msg("failed to log in user")
		utilities.WriteMessage(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	utilities.WriteJSON(w, http.StatusOK, payload.LoginResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
	})
}

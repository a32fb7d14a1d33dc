package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abhi19833/milesto/internal/milesto/domain"
	"github.com/abhi19833/milesto/internal/milesto/service"
	"github.com/abhi19833/milesto/pkg/httpx"
	"github.com/abhi19833/milesto/pkg/milestosdk"
	"github.com/abhi19833/milesto/pkg/slogx"
)

type AuthHandler struct {
	AuthService *service.AuthService
}

// HandleRegister godoc
//
//	@Summary		Register Endpoint
//	@Description	Create an account. Pending invitations addressed to the email are consumed and the
//	@Description	user joins those projects in the same transaction. An optional inviteToken links the
//	@Description	signup to the invitation email it came from.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		milestosdk.RegisterRequest	true	"Registration form"
//	@Success		201		{object}	milestosdk.AuthResponse		"token, user, joinedProjects"
//	@Failure		400		{object}	milestosdk.ErrorResponse	"message"
//	@Failure		409		{object}	milestosdk.ErrorResponse	"message"
//	@Router			/api/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req milestosdk.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, err := h.AuthService.Register(ctx, service.RegisterParams{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		University:  req.University,
		Role:        domain.AccountRole(req.Role),
		InviteToken: req.InviteToken,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRegistration):
			httpx.WriteError(w, http.StatusBadRequest, "Name, email and password are required")
		case errors.Is(err, service.ErrWeakPassword):
			httpx.WriteError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		case errors.Is(err, service.ErrEmailAlreadyTaken):
			httpx.WriteError(w, http.StatusConflict, "An account with this email already exists")
		default:
			log.Error("registration failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Registration failed")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, milestosdk.AuthResponse{
		Token:          result.Token,
		User:           toUser(result.User),
		JoinedProjects: result.JoinedProjects,
	})
}

// HandleLogin godoc
//
//	@Summary		Login Endpoint
//	@Description	Authenticate with email and password and receive a session token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		milestosdk.LoginRequest		true	"Credentials"
//	@Success		200		{object}	milestosdk.AuthResponse		"token, user"
//	@Failure		401		{object}	milestosdk.ErrorResponse	"message"
//	@Router			/api/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req milestosdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	user, token, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, service.ErrAccountDisabled):
			httpx.WriteError(w, http.StatusForbidden, "Account is deactivated")
		default:
			log.Error("login failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, milestosdk.AuthResponse{
		Token: token,
		User:  toUser(user),
	})
}

// HandleMe godoc
//
//	@Summary		Current User Endpoint
//	@Description	Return the account backing the presented session token.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	milestosdk.User				"id, name, email, role"
//	@Failure		401	{object}	milestosdk.ErrorResponse	"message"
//	@Security		BearerAuth
//	@Router			/api/auth/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.AuthService.GetUser(ctx, httpx.UserIDFromCtx(ctx))
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "Account no longer exists")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUser(user))
}

// HandleChangePassword godoc
//
//	@Summary		Change Password Endpoint
//	@Description	Swap the account password after verifying the current one.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body	milestosdk.ChangePasswordRequest	true	"Current and new password"
//	@Success		204
//	@Failure		400	{object}	milestosdk.ErrorResponse	"message"
//	@Failure		401	{object}	milestosdk.ErrorResponse	"message"
//	@Security		BearerAuth
//	@Router			/api/auth/password [put].
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req milestosdk.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	err := h.AuthService.ChangePassword(ctx, httpx.UserIDFromCtx(ctx), req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWeakPassword):
			httpx.WriteError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized, "Current password is incorrect")
		default:
			log.Error("password change failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Could not change password")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleForgotPassword godoc
//
//	@Summary		Forgot Password Endpoint
//	@Description	Email a password reset link. Responds 204 whether or not the email exists.
//	@Tags			Auth
//	@Accept			json
//	@Param			request	body	milestosdk.ForgotPasswordRequest	true	"Account email"
//	@Success		204
//	@Failure		400	{object}	milestosdk.ErrorResponse	"message"
//	@Router			/api/auth/forgot-password [post].
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req milestosdk.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.AuthService.ForgotPassword(ctx, req.Email); err != nil {
		log.Error("forgot password failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Could not send reset email")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleResetPassword godoc
//
//	@Summary		Reset Password Endpoint
//	@Description	Redeem a reset token for a new password.
//	@Tags			Auth
//	@Accept			json
//	@Param			request	body	milestosdk.ResetPasswordRequest	true	"Token and new password"
//	@Success		204
//	@Failure		400	{object}	milestosdk.ErrorResponse	"message"
//	@Router			/api/auth/reset-password [post].
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req milestosdk.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.AuthService.ResetPassword(ctx, req.Token, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrWeakPassword):
			httpx.WriteError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		case errors.Is(err, service.ErrInvalidResetToken):
			httpx.WriteError(w, http.StatusBadRequest, "Reset link is invalid or has expired")
		default:
			log.Error("password reset failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Could not reset password")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmaster/internal/auth"
	"taskmaster/internal/storage/sqlstore"
)

const (
	msgAllFieldsRequired  = "All fields are required"
	msgInvalidEmail       = "Invalid email format"
	msgPasswordTooShort   = "Password must be at least 6 characters long"
	msgPasswordTooLong    = "Password must be at most 72 bytes long"
	msgEmailTaken         = "User with this email already exists"
	msgSignupFailed       = "Signup failed. Please try again."
	msgCredentialsMissing = "Email and password are required"
	msgBadCredentials     = "Invalid email or password"
	msgLoginFailed        = "Login failed. Please try again."
	msgInvalidBody        = "Invalid request body"
)

// bcrypt refuses passwords longer than 72 bytes.
const maxPasswordBytes = 72

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,mailbox"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// handleSignup registers a new user with a hashed password.
func (s *Server) handleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, signupMessage(err), err)
		return
	}
	if len(req.Password) > maxPasswordBytes {
		s.respondError(c, http.StatusBadRequest, msgPasswordTooLong, nil)
		return
	}

	ctx := c.Request.Context()
	taken, err := s.store.EmailTaken(ctx, req.Email)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, msgSignupFailed, err)
		return
	}
	if taken {
		s.respondError(c, http.StatusBadRequest, msgEmailTaken, nil)
		return
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, msgSignupFailed, err)
		return
	}

	id, err := s.store.CreateUser(ctx, req.Name, req.Email, hash)
	if errors.Is(err, sqlstore.ErrEmailTaken) {
		s.respondError(c, http.StatusBadRequest, msgEmailTaken, nil)
		return
	}
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, msgSignupFailed, err)
		return
	}

	s.logger.Info("user registered", "user_id", id)
	respondSuccess(c, http.StatusOK, gin.H{
		"success": true,
		"userId":  id,
		"message": "User registered successfully",
	})
}

// signupMessage picks the client message for a failed signup binding. Missing
// fields win over a malformed email, which wins over a short password.
func signupMessage(err error) string {
	tags := failedTags(err)
	switch {
	case tags == nil:
		return msgInvalidBody
	case tags["required"]:
		return msgAllFieldsRequired
	case tags["mailbox"]:
		return msgInvalidEmail
	case tags["min"]:
		return msgPasswordTooShort
	default:
		return msgInvalidBody
	}
}

// handleLogin checks credentials and returns the public user record.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		msg := msgCredentialsMissing
		if failedTags(err) == nil {
			msg = msgInvalidBody
		}
		s.respondError(c, http.StatusBadRequest, msg, err)
		return
	}

	user, err := s.store.GetUserByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, sqlstore.ErrNotFound) {
		s.respondError(c, http.StatusUnauthorized, msgBadCredentials, nil)
		return
	}
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, msgLoginFailed, err)
		return
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrMismatch) {
			s.respondError(c, http.StatusUnauthorized, msgBadCredentials, nil)
			return
		}
		s.respondError(c, http.StatusInternalServerError, msgLoginFailed, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

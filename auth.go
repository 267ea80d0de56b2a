package main

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lg/sweat-go-api/internal/appctx"
	"lg/sweat-go-api/internal/sessions"
)

func bindCredentials(c *gin.Context) (sessions.Credentials, bool) {
	var body credentialsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return sessions.Credentials{}, false
	}
	body.Email = strings.TrimSpace(body.Email)
	if body.Email == "" || body.Password == "" {
		apiError(c, http.StatusBadRequest, "email and password are required")
		return sessions.Credentials{}, false
	}
	return sessions.Credentials{Email: body.Email, Password: body.Password}, true
}

// signup registers an account on the workout backend and logs straight in.
// POST /api/auth/signup. Body: { "email": "...", "password": "..." }.
func (h *Handler) signup(c *gin.Context) {
	creds, ok := bindCredentials(c)
	if !ok {
		return
	}
	if err := h.backend.Register(c, creds); err != nil {
		backendError(c, "signup", err)
		return
	}
	h.finishLogin(c, creds, http.StatusCreated)
}

// login exchanges credentials for a backend token and keeps it for later
// requests. POST /api/auth/login.
func (h *Handler) login(c *gin.Context) {
	creds, ok := bindCredentials(c)
	if !ok {
		return
	}
	h.finishLogin(c, creds, http.StatusOK)
}

func (h *Handler) finishLogin(c *gin.Context, creds sessions.Credentials, status int) {
	token, err := h.backend.Login(c, creds)
	if err != nil {
		var apiErr *sessions.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			apiError(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		backendError(c, "login", err)
		return
	}
	if err := h.app.SetToken(c, token); err != nil {
		log.Printf("[login] failed to persist token: %v", err)
		apiError(c, http.StatusInternalServerError, "could not save session")
		return
	}
	if h.poller != nil {
		h.poller.Invalidate()
	}
	c.JSON(status, loginResponse{Token: token, Mode: string(appctx.ModeUser)})
}

// createLocalAccount saves the on-device account used by local login,
// replacing any existing one. POST /api/auth/local-account.
// Body: { "fullName": "...", "username": "...", "password": "...", "confirmPassword": "..." }.
func (h *Handler) createLocalAccount(c *gin.Context) {
	var body localAccountRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Username) == "" || body.Password == "" {
		apiError(c, http.StatusBadRequest, "username and password are required")
		return
	}
	if body.Password != body.ConfirmPassword {
		apiError(c, http.StatusBadRequest, "passwords do not match")
		return
	}

	creds, err := h.app.CreateAccount(c, body.Username, body.FullName, body.Password)
	if err != nil {
		if errors.Is(err, appctx.ErrInvalidCredentials) {
			apiError(c, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[createLocalAccount] %v", err)
		apiError(c, http.StatusInternalServerError, "could not save account")
		return
	}
	c.JSON(http.StatusCreated, accountResponse{Username: creds.Username, FullName: creds.FullName})
}

// localLogin checks the on-device account (or the configured admin) without
// touching the backend. POST /api/auth/local-login.
// Body: { "username": "...", "password": "..." }.
func (h *Handler) localLogin(c *gin.Context) {
	var body localLoginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	body.Username = strings.TrimSpace(body.Username)
	if body.Username == "" || body.Password == "" {
		apiError(c, http.StatusBadRequest, "username and password are required")
		return
	}

	mode, err := h.app.LocalLogin(c, body.Username, body.Password)
	switch {
	case errors.Is(err, appctx.ErrNoAccount):
		apiError(c, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, appctx.ErrInvalidCredentials):
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	case err != nil:
		log.Printf("[localLogin] failed to persist mode: %v", err)
		apiError(c, http.StatusInternalServerError, "could not save session")
		return
	}
	c.JSON(http.StatusOK, loginResponse{Mode: string(mode)})
}

// logout drops the token and mode. The profile and calorie log stay.
// POST /api/auth/logout.
func (h *Handler) logout(c *gin.Context) {
	if err := h.app.Logout(c); err != nil {
		log.Printf("[logout] %v", err)
		apiError(c, http.StatusInternalServerError, "could not clear session")
		return
	}
	if h.poller != nil {
		h.poller.Invalidate()
	}
	c.Status(http.StatusNoContent)
}

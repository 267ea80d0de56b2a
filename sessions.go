package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lg/sweat-go-api/internal/sessions"
)

// idParam parses a positive integer path param. Writes a 400 on failure.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		apiError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// listSessions fetches the live session list from the backend.
// GET /api/sessions. Returns an empty array (not null) if there are none.
func (h *Handler) listSessions(c *gin.Context) {
	list, err := h.backend.ListSessions(c, c.GetString("token"))
	if err != nil {
		backendError(c, "listSessions", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// cachedSessions returns the poller's last list without calling the backend.
// GET /api/sessions/cached. 404 when polling is disabled.
func (h *Handler) cachedSessions(c *gin.Context) {
	if h.poller == nil {
		apiError(c, http.StatusNotFound, "session polling is disabled")
		return
	}
	list, at, err := h.poller.Snapshot()
	resp := cachedSessionsResponse{Sessions: list}
	if !at.IsZero() {
		resp.RefreshedAt = &at
	}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// createSession starts a workout session. POST /api/sessions.
// Body: { "note": "Leg day" } (note may be empty).
func (h *Handler) createSession(c *gin.Context) {
	var body createSessionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	s, err := h.backend.CreateSession(c, body.Note, c.GetString("token"))
	if err != nil {
		backendError(c, "createSession", err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// updateSession edits a session's note or name. PUT /api/sessions/:id.
// Body: { "note": "...", "name": "..." }; absent fields are left alone.
// Responds 204 when the backend doesn't echo the session back.
func (h *Handler) updateSession(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var body sessions.SessionUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Note == nil && body.Name == nil {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	s, echoed, err := h.backend.UpdateSession(c, id, body, c.GetString("token"))
	if err != nil {
		backendError(c, "updateSession", err)
		return
	}
	if !echoed {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, s)
}

// deleteSession removes a session with its sets. DELETE /api/sessions/:id.
func (h *Handler) deleteSession(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.backend.DeleteSession(c, id, c.GetString("token")); err != nil {
		backendError(c, "deleteSession", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// addSet records a set within a session. POST /api/sessions/:id/sets.
// Body: { "exercise": "Squat", "reps": 5, "weight": 225 }.
func (h *Handler) addSet(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var body sessions.SetInput
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	set, err := h.backend.AddSet(c, id, body, c.GetString("token"))
	if err != nil {
		if errors.Is(err, sessions.ErrInvalidSet) {
			apiError(c, http.StatusBadRequest, err.Error())
			return
		}
		backendError(c, "addSet", err)
		return
	}
	c.JSON(http.StatusCreated, set)
}

// deleteSet removes one set. DELETE /api/sets/:id.
func (h *Handler) deleteSet(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.backend.DeleteSet(c, id, c.GetString("token")); err != nil {
		backendError(c, "deleteSet", err)
		return
	}
	c.Status(http.StatusNoContent)
}

package handler

import (
	"errors"
	"net/http"

	"higestdata/internal/auth/credentials"
	"higestdata/internal/session"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	userID, err := h.credentials.Register(
		c.Request.Context(),
		req.Email,
		req.Password,
	)
	if errors.Is(err, credentials.ErrAlreadyRegistered) {
		c.JSON(http.StatusConflict, gin.H{"error": "account already exists"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	// New accounts always start as plain users.
	if err := h.sessions.Create(c.Writer, userID, req.Email, session.RoleUser); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "registered"})
}

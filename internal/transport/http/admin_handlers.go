package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/okofalt/cellsync-server/internal/auth"
	"github.com/okofalt/cellsync-server/internal/core"
	"github.com/okofalt/cellsync-server/internal/store"
)

// AdminHandlers serves the operator API: inspect connections, kick
// players, manage the ban list.
type AdminHandlers struct {
	room  *core.Room
	auth  *auth.Service
	store store.Store
	log   *zerolog.Logger
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges the operator password for a bearer token.
func (h *AdminHandlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "password required"})
		return
	}

	token, err := h.auth.Login(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "bad credentials"})
			return
		}
		h.log.Error().Err(err).Msg("admin login")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, loginResponse{Token: token})
}

// ListPlayers returns every attached connection with its remote address.
func (h *AdminHandlers) ListPlayers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"players": h.room.Players()})
}

type kickRequest struct {
	ID string `json:"id" binding:"required"`
}

// Kick disconnects a player by connection id.
func (h *AdminHandlers) Kick(c *gin.Context) {
	var req kickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id required"})
		return
	}

	if err := h.room.Kick(req.ID); err != nil {
		if errors.Is(err, core.ErrUnknownPlayer) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown player"})
			return
		}
		h.log.Error().Err(err).Str("conn_id", req.ID).Msg("admin kick")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	c.Status(http.StatusNoContent)
}

type banRequest struct {
	Addr   string `json:"addr" binding:"required"`
	Reason string `json:"reason"`
}

// Ban blocks a remote address from connecting.
func (h *AdminHandlers) Ban(c *gin.Context) {
	var req banRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "addr required"})
		return
	}

	if err := h.store.Ban(c.Request.Context(), req.Addr, req.Reason); err != nil {
		h.log.Error().Err(err).Str("addr", req.Addr).Msg("admin ban")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	// Banning does not retroactively disconnect; kick separately if needed.
	c.Status(http.StatusNoContent)
}

type unbanRequest struct {
	Addr string `json:"addr" binding:"required"`
}

// Unban lifts the block on a remote address.
func (h *AdminHandlers) Unban(c *gin.Context) {
	var req unbanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "addr required"})
		return
	}

	if err := h.store.Unban(c.Request.Context(), req.Addr); err != nil {
		h.log.Error().Err(err).Str("addr", req.Addr).Msg("admin unban")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	c.Status(http.StatusNoContent)
}

// ListBans returns the active ban list.
func (h *AdminHandlers) ListBans(c *gin.Context) {
	bans, err := h.store.ListBans(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("admin list bans")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	out := make([]gin.H, 0, len(bans))
	for _, b := range bans {
		out = append(out, gin.H{
			"addr":      b.Addr,
			"reason":    b.Reason,
			"createdAt": b.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"bans": out})
}

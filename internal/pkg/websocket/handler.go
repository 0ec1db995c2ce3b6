package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/internhub/internal/app/models/dto"
	"github.com/yigit/internhub/internal/pkg/auth"
)

// TokenValidator checks access tokens
type TokenValidator interface {
	ValidateAndExtractClaims(token string, want auth.TokenType) (*auth.Claims, error)
}

// Handler upgrades authenticated requests to notification streams
type Handler struct {
	hub    *Hub
	tokens TokenValidator
	logger zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, tokens TokenValidator, logger zerolog.Logger) *Handler {
	return &Handler{hub: hub, tokens: tokens, logger: logger}
}

// HandleConnection godoc
// @Summary Subscribe to workflow notifications
// @Description Upgrades to a WebSocket that receives a JSON frame for every notification addressed to the caller. Browsers pass the access token as the token query parameter.
// @Tags notifications
// @Param token query string false "Access token when no Authorization header can be sent"
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} dto.APIResponse "Missing or invalid token"
// @Router /notifications/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		var err error
		if token, err = auth.ExtractBearerToken(c.GetHeader("Authorization")); err != nil {
			token = ""
		}
	}

	claims, err := h.tokens.ValidateAndExtractClaims(token, auth.AccessToken)
	if token == "" || err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "A valid access token is required"),
		))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Int64("userID", claims.UserID).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, 32),
		userID: claims.UserID,
		role:   claims.Role,
		logger: h.logger,
	}
	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

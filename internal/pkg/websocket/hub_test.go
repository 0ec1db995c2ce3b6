package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/pkg/auth"
	"github.com/yigit/internhub/internal/pkg/notify"
)

func setup(t *testing.T) (*Hub, *auth.JWTService, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(zerolog.Nop())
	go hub.Run()
	t.Cleanup(hub.Stop)

	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "ws-secret", AccessTokenExp: time.Hour, RefreshTokenExp: time.Hour, TokenIssuer: "internhub.test"})
	r := gin.New()
	r.GET("/ws", NewHandler(hub, jwt, zerolog.Nop()).HandleConnection)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return hub, jwt, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, hub *Hub, jwt *auth.JWTService, url string, u *models.User) *gorilla.Conn {
	t.Helper()
	pair, err := jwt.GenerateTokenPair(u)
	require.NoError(t, err)

	conn, _, err := gorilla.DefaultDialer.Dial(url+"?token="+pair.AccessToken, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.ClientCount(u.ID) == 1 }, time.Second, 10*time.Millisecond)
	return conn
}

func TestHubDeliversToRecipientsAndAdmins(t *testing.T) {
	hub, jwt, url := setup(t)
	student := dial(t, hub, jwt, url, &models.User{ID: 1, Email: "s@x.dz", Role: models.RoleStudent})
	admin := dial(t, hub, jwt, url, &models.User{ID: 2, Email: "a@x.dz", Role: models.RoleAdmin})
	other := dial(t, hub, jwt, url, &models.User{ID: 3, Email: "p@x.dz", Role: models.RoleSupervisor})

	require.NoError(t, hub.Notify(context.Background(), notify.Notification{
		EntityType: models.EntityApplication, EntityID: 10, Event: "approve",
		Recipients: []int64{1}, NotifyAdmins: true,
	}))

	for _, conn := range []*gorilla.Conn{student, admin} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var env Envelope
		require.NoError(t, json.Unmarshal(data, &env))
		assert.Equal(t, "notification", env.Type)
		assert.Equal(t, "approve", env.Data.Event)
		assert.Equal(t, int64(10), env.Data.EntityID)
	}

	other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := other.ReadMessage()
	assert.Error(t, err)
}

func TestHandlerRejectsMissingToken(t *testing.T) {
	_, _, url := setup(t)
	_, resp, err := gorilla.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestClientUnregistersOnClose(t *testing.T) {
	hub, jwt, url := setup(t)
	conn := dial(t, hub, jwt, url, &models.User{ID: 5, Email: "t@x.dz", Role: models.RoleStudent})
	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount(5) == 0 }, 2*time.Second, 10*time.Millisecond)
}

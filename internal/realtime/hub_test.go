package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renovapro/crm-api/internal/domain"
	pkgjwt "github.com/renovapro/crm-api/pkg/jwt"
)

const testSecret = "secret-de-test"

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(Config{Port: 0, JWTSecret: testSecret}, zerolog.Nop())
	require.NoError(t, h.Start())
	t.Cleanup(func() { _ = h.Stop() })
	time.Sleep(50 * time.Millisecond)
	return h
}

func dialAs(t *testing.T, h *Hub, organizationID string) *websocket.Conn {
	t.Helper()
	token, err := pkgjwt.Generate(testSecret, "user-1", organizationID, "admin", "test", 60)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws://"+h.Addr()+"/ws?token="+token, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

// Cas 1 : démarrage et arrêt propres, adresse d'écoute disponible.
func TestHub_StartStop(t *testing.T) {
	h := NewHub(Config{Port: 0, JWTSecret: testSecret}, zerolog.Nop())
	require.NoError(t, h.Start())
	assert.NotEmpty(t, h.Addr())
	require.NoError(t, h.Stop())
}

// Cas 2 : sans token valide la bascule WebSocket est refusée.
func TestHub_ConnexionSansTokenRefusee(t *testing.T) {
	h := startHub(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, _, err := websocket.Dial(ctx, "ws://"+h.Addr()+"/ws", nil)
	assert.Error(t, err, "une connexion sans token doit être rejetée")
	assert.Equal(t, 0, h.ClientCount())
}

// Cas 3 : un événement n'est diffusé qu'aux clients de son organisation.
func TestHub_DiffusionCloisonneeParOrganisation(t *testing.T) {
	h := startHub(t)
	connA := dialAs(t, h, "org-a")
	connB := dialAs(t, h, "org-b")
	require.Equal(t, 2, h.ClientCount())

	h.Publish(domain.ChangeEvent{
		Type:           domain.EventInsert,
		Table:          "taches",
		OrganizationID: "org-a",
		New:            map[string]any{"titre": "Nouvelle tâche"},
	})

	// Le client de org-a reçoit l'événement.
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, data, err := connA.Read(ctx)
	require.NoError(t, err)

	var evt domain.ChangeEvent
	require.NoError(t, json.Unmarshal(data, &evt))
	assert.Equal(t, domain.EventInsert, evt.Type)
	assert.Equal(t, "taches", evt.Table)
	assert.Empty(t, evt.OrganizationID, "l'identifiant d'organisation ne sort jamais sur le fil")

	// Le client de org-b ne reçoit rien.
	shortCtx, cancelShort := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancelShort()
	_, _, err = connB.Read(shortCtx)
	assert.Error(t, err, "aucun événement ne doit fuiter vers une autre organisation")
}

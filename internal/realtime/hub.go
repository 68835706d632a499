// Package realtime expose le flux de changements sur WebSocket.
//
// Le hub diffuse les événements (insertion, mise à jour, suppression) aux
// clients connectés de la même organisation : un client ne reçoit jamais les
// changements d'un autre tenant.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/renovapro/crm-api/internal/domain"
	"github.com/renovapro/crm-api/pkg/jwt"
)

var _ domain.EventPublisher = (*Hub)(nil)

const writeTimeout = 5 * time.Second

// client connexion WebSocket authentifiée, rattachée à une organisation.
type client struct {
	conn           *websocket.Conn
	organizationID string
}

// Hub gère les connexions WebSocket et la diffusion des changements.
type Hub struct {
	addr      string
	jwtSecret string
	listener  net.Listener
	server    *http.Server

	clients   map[*client]bool
	clientsMu sync.RWMutex

	broadcast chan domain.ChangeEvent

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	log zerolog.Logger
}

// Config configuration du serveur temps réel.
type Config struct {
	// Port d'écoute du serveur WebSocket (distinct de l'API HTTP).
	Port int
	// JWTSecret secret de vérification des tokens, le même que l'API.
	JWTSecret string
}

// NewHub construit le hub. Start doit être appelé pour ouvrir l'écoute.
func NewHub(cfg Config, log zerolog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		addr:      fmt.Sprintf(":%d", cfg.Port),
		jwtSecret: cfg.JWTSecret,
		clients:   make(map[*client]bool),
		broadcast: make(chan domain.ChangeEvent, 100),
		ctx:       ctx,
		cancel:    cancel,
		log:       log,
	}
}

// Start ouvre l'écoute et démarre la boucle de diffusion.
func (h *Hub) Start() error {
	ln, err := net.Listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("écoute sur %s: %w", h.addr, err)
	}
	h.listener = ln

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleWebSocket)
	mux.HandleFunc("/health", h.handleHealth)

	h.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	h.wg.Add(1)
	go h.broadcastLoop()

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.log.Info().Str("addr", h.addr).Msg("serveur temps réel démarré")
		if err := h.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			h.log.Error().Err(err).Msg("erreur serveur temps réel")
		}
	}()

	return nil
}

// Stop ferme les connexions et arrête le serveur proprement.
func (h *Hub) Stop() error {
	h.cancel()

	h.clientsMu.Lock()
	for c := range h.clients {
		_ = c.conn.Close(websocket.StatusGoingAway, "arrêt du serveur")
		delete(h.clients, c)
	}
	h.clientsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("arrêt serveur temps réel: %w", err)
	}
	h.wg.Wait()
	return nil
}

// Publish pousse un événement vers la boucle de diffusion. Non bloquant :
// si le canal est plein l'événement est perdu (le client se resynchronise
// au prochain chargement).
func (h *Hub) Publish(event domain.ChangeEvent) {
	select {
	case h.broadcast <- event:
	case <-h.ctx.Done():
	default:
		h.log.Warn().Str("table", event.Table).Msg("canal de diffusion plein, événement perdu")
	}
}

func (h *Hub) broadcastLoop() {
	defer h.wg.Done()

	for {
		select {
		case <-h.ctx.Done():
			return

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				h.log.Error().Err(err).Msg("sérialisation de l'événement")
				continue
			}

			h.clientsMu.RLock()
			targets := make([]*client, 0, len(h.clients))
			for c := range h.clients {
				if c.organizationID == event.OrganizationID {
					targets = append(targets, c)
				}
			}
			h.clientsMu.RUnlock()

			// Envoi hors du verrou pour ne pas bloquer les nouvelles connexions.
			for _, c := range targets {
				ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
				err := c.conn.Write(ctx, websocket.MessageText, data)
				cancel()
				if err != nil {
					h.removeClient(c)
				}
			}
		}
	}
}

// handleWebSocket authentifie le token passé en query puis bascule la
// connexion en WebSocket.
func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	_, organizationID, _, err := jwt.Parse(h.jwtSecret, token)
	if err != nil {
		http.Error(w, "token invalide", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("échec de la bascule WebSocket")
		return
	}

	c := &client{conn: conn, organizationID: organizationID}
	h.clientsMu.Lock()
	h.clients[c] = true
	count := len(h.clients)
	h.clientsMu.Unlock()

	h.log.Debug().Int("clients", count).Msg("client temps réel connecté")

	go h.readLoop(c)
}

// readLoop maintient la connexion et détecte la déconnexion du client.
// Les messages entrants ne sont pas traités.
func (h *Hub) readLoop(c *client) {
	defer h.removeClient(c)
	for {
		if _, _, err := c.conn.Read(h.ctx); err != nil {
			return
		}
	}
}

func (h *Hub) removeClient(c *client) {
	h.clientsMu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		count := len(h.clients)
		h.clientsMu.Unlock()
		_ = c.conn.Close(websocket.StatusNormalClosure, "")
		h.log.Debug().Int("clients", count).Msg("client temps réel déconnecté")
		return
	}
	h.clientsMu.Unlock()
}

func (h *Hub) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.clientsMu.RLock()
	count := len(h.clients)
	h.clientsMu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"clients": count,
	})
}

// ClientCount nombre de clients actuellement connectés.
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// Addr adresse réelle d'écoute (utile quand le port configuré est 0).
func (h *Hub) Addr() string {
	if h.listener != nil {
		return h.listener.Addr().String()
	}
	return h.addr
}

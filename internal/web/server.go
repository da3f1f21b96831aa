package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"os"

	"github.com/coder/websocket"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/lanefall/lanefall/internal/game"
)

//go:embed static
var staticFiles embed.FS

// CardInfo is the JSON representation of a card for the /api/cards endpoint.
type CardInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CardType    string `json:"cardType"`
	Cost        int    `json:"cost"`
	Attack      int    `json:"attack,omitempty"`
	Hull        int    `json:"hull,omitempty"`
	Shields     int    `json:"shields,omitempty"`
	Ability     string `json:"ability,omitempty"`
}

// SquadronInfo is the JSON representation of a squadron for /api/squadrons.
type SquadronInfo struct {
	Number int      `json:"number"`
	Name   string   `json:"name"`
	Cards  []string `json:"cards"`
}

// Server is the lanefall web UI server: static assets, card and squadron
// metadata, and a WebSocket-to-TCP bridge to a running match server.
type Server struct {
	squadronFile string
	logger       *zap.Logger
	mux          *http.ServeMux
}

// NewServer creates a new web server.
func NewServer(squadronFile string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{squadronFile: squadronFile, logger: logger, mux: http.NewServeMux()}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f.(io.Reader))
	})
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/squadrons", s.handleSquadrons)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	var cards []CardInfo
	for name, ctor := range game.CardRegistry {
		c := ctor()
		ci := CardInfo{
			Name:        name,
			Description: c.Description,
			Cost:        c.Cost,
		}
		switch c.Type {
		case game.CardDrone:
			ci.CardType = "Drone"
			ci.Attack = c.Drone.Attack
			ci.Hull = c.Drone.Hull
			ci.Shields = c.Drone.Shields
			if c.Drone.Ability != nil {
				ci.Ability = c.Drone.Ability.Name
			}
		default:
			ci.CardType = "Tactic"
		}
		cards = append(cards, ci)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cards)
}

func (s *Server) handleSquadrons(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.squadronFile)
	if err != nil {
		http.Error(w, "could not read squadron file", http.StatusInternalServerError)
		return
	}
	var sf game.SquadronFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		http.Error(w, "could not parse squadron file", http.StatusInternalServerError)
		return
	}
	var squadrons []SquadronInfo
	for i, sq := range sf.Squadrons {
		si := SquadronInfo{Number: i + 1, Name: sq.Name}
		seen := make(map[string]bool)
		for _, c := range sq.Cards {
			if !seen[c.Name] {
				si.Cards = append(si.Cards, c.Name)
				seen[c.Name] = true
			}
		}
		squadrons = append(squadrons, si)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(squadrons)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // allow connections from any origin
	})
	if err != nil {
		s.logger.Warn("websocket accept failed", zap.Error(err))
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()

	_, connectData, err := wsConn.Read(ctx)
	if err != nil {
		s.logger.Warn("websocket read connect failed", zap.Error(err))
		return
	}
	var connectMsg struct {
		Type           string `json:"type"`
		Addr           string `json:"addr"`
		SquadronNumber int    `json:"squadron_number"`
	}
	if err := json.Unmarshal(connectData, &connectMsg); err != nil || connectMsg.Type != "connect" {
		wsConn.Close(websocket.StatusPolicyViolation, "expected connect message")
		return
	}

	tcpConn, err := net.Dial("tcp", connectMsg.Addr)
	if err != nil {
		errMsg, _ := json.Marshal(map[string]string{
			"type":   "error",
			"result": fmt.Sprintf("Could not connect to game server at %s: %v", connectMsg.Addr, err),
		})
		wsConn.Write(ctx, websocket.MessageText, errMsg)
		wsConn.Close(websocket.StatusNormalClosure, "connection failed")
		return
	}
	defer tcpConn.Close()

	joinMsg, _ := json.Marshal(map[string]interface{}{
		"type":            "join",
		"squadron_number": connectMsg.SquadronNumber,
	})
	joinMsg = append(joinMsg, '\n')
	if _, err := tcpConn.Write(joinMsg); err != nil {
		s.logger.Warn("tcp write join failed", zap.Error(err))
		return
	}

	done := make(chan struct{})

	// TCP → WebSocket (server messages to browser)
	go func() {
		defer close(done)
		dec := json.NewDecoder(tcpConn)
		for {
			var msg json.RawMessage
			if err := dec.Decode(&msg); err != nil {
				if err != io.EOF {
					s.logger.Warn("tcp read failed", zap.Error(err))
				}
				return
			}
			if err := wsConn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}()

	// WebSocket → TCP (browser responses to server)
	go func() {
		for {
			_, data, err := wsConn.Read(ctx)
			if err != nil {
				return
			}
			data = append(data, '\n')
			if _, err := tcpConn.Write(data); err != nil {
				return
			}
		}
	}()

	<-done
	wsConn.Close(websocket.StatusNormalClosure, "game ended")
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

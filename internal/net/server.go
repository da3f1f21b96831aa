package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lanefall/lanefall/internal/game"
	"github.com/lanefall/lanefall/internal/log"
)

// ActionJournal receives match metadata and every executed action in order.
// The replay store implements it; a nil journal disables recording.
type ActionJournal interface {
	Begin(matchID string, seed int64, squadron0, squadron1 int) error
	Record(matchID string, seq int, payload *game.ActionPayload) error
}

// Server hosts a match between the local player and one TCP client.
type Server struct {
	SquadronFile string
	Port         string
	HostSquadron int   // host's squadron number (1-indexed)
	Seed         int64 // shuffle seed; 0 picks one from the match id
	Journal      ActionJournal
	Logger       *zap.Logger
}

// Run starts the server, waits for a client to join, then runs the match.
func (s *Server) Run(ctx context.Context) error {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ln, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer ln.Close()

	fmt.Printf("Waiting for opponent on port %s...\n", s.Port)
	conn, err := ln.Accept()
	if err != nil {
		return fmt.Errorf("accept: %w", err)
	}
	defer conn.Close()
	logger.Info("opponent connected", zap.String("addr", conn.RemoteAddr().String()))

	dec := json.NewDecoder(conn)
	var joinMsg ClientMessage
	if err := dec.Decode(&joinMsg); err != nil {
		return fmt.Errorf("read join message: %w", err)
	}
	joinerSquadron := joinMsg.SquadronNumber
	if joinerSquadron == 0 {
		joinerSquadron = 2
	}

	hostName, hostCards, err := game.SquadronByNumber(s.SquadronFile, s.HostSquadron)
	if err != nil {
		return fmt.Errorf("load host squadron: %w", err)
	}
	joinerName, joinerCards, err := game.SquadronByNumber(s.SquadronFile, joinerSquadron)
	if err != nil {
		return fmt.Errorf("load joiner squadron: %w", err)
	}

	matchID := uuid.NewString()
	seed := s.Seed
	if seed == 0 {
		// Derive a stable seed from the match id so both peers can
		// name the same match and replay it.
		for _, b := range uuid.MustParse(matchID) {
			seed = seed*31 + int64(b)
		}
	}
	logger.Info("match starting",
		zap.String("match_id", matchID),
		zap.Int64("seed", seed),
		zap.String("host_squadron", hostName),
		zap.String("joiner_squadron", joinerName))

	// The host plays through the same wire protocol as the joiner, over an
	// in-process pipe.
	hostConn, hostServerConn := net.Pipe()
	hostCtrl := NewNetworkController(hostServerConn, 0)
	joinerCtrl := NewNetworkController(conn, 1)

	if err := joinerCtrl.SendWelcome(matchID, seed); err != nil {
		return fmt.Errorf("send welcome: %w", err)
	}

	match := game.NewMatch(game.MatchConfig{
		Squadron0: hostCards,
		Squadron1: joinerCards,
		Logger:    log.NewTextLogger(os.Stdout),
		Seed:      seed,
	}, hostCtrl, joinerCtrl)
	if s.Journal != nil {
		if err := s.Journal.Begin(matchID, seed, s.HostSquadron, joinerSquadron); err != nil {
			logger.Warn("journal begin failed", zap.Error(err))
		}
		match.Journal = func(seq int, payload *game.ActionPayload) {
			if err := s.Journal.Record(matchID, seq, payload); err != nil {
				logger.Warn("journal record failed", zap.Int("seq", seq), zap.Error(err))
			}
		}
	}

	errCh := make(chan error, 2)
	go func() {
		client := &Client{conn: hostConn, playerName: "P1"}
		errCh <- client.RunREPL(ctx)
	}()
	go func() {
		winner, err := match.Run(ctx)
		if err != nil {
			errCh <- fmt.Errorf("match error: %w", err)
			return
		}
		logger.Info("match over", zap.Int("winner", winner), zap.String("result", match.State.Result))
		_ = joinerCtrl.SendGameOver(winner, match.State.Result)
		_ = hostCtrl.SendGameOver(winner, match.State.Result)
		errCh <- nil
	}()

	return <-errCh
}

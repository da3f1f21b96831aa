package net

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// Client connects to a game server and provides a terminal REPL.
type Client struct {
	conn       net.Conn
	playerName string // "P1" or "P2"
}

// Connect connects to a server, sends the squadron choice, and runs the REPL.
func Connect(ctx context.Context, addr string, squadronNumber int) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	enc := json.NewEncoder(conn)
	if err := enc.Encode(ClientMessage{Type: "join", SquadronNumber: squadronNumber}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	fmt.Println("Connected! Waiting for game to start...")
	client := &Client{conn: conn, playerName: "P2"}
	return client.RunREPL(ctx)
}

// RunREPL reads server messages and handles them interactively.
func (c *Client) RunREPL(ctx context.Context) error {
	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)
	reader := bufio.NewReader(os.Stdin)

	for {
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		switch msg.Type {
		case "welcome":
			fmt.Printf("Match %s (seed %d), you are P%d\n", msg.MatchID, msg.Seed, msg.Player+1)

		case "notify":
			c.renderEvent(msg.Event)

		case "choose_action":
			c.renderState(msg.State)
			c.renderActions(msg.Actions)
			idx := c.readIndex(reader, len(msg.Actions))
			if err := enc.Encode(ClientMessage{Type: "action", Index: idx}); err != nil {
				return fmt.Errorf("send action: %w", err)
			}

		case "chain_prompt":
			c.renderChain(msg.Chain)
			resp := c.readChainSelect(reader, msg.Chain)
			if err := enc.Encode(resp); err != nil {
				return fmt.Errorf("send chain_select: %w", err)
			}

		case "state_sync":
			fmt.Printf("(state sync received, digest %s)\n", msg.Digest)

		case "game_over":
			fmt.Println()
			fmt.Println("═══════════════════════════════════")
			fmt.Println("          GAME OVER")
			fmt.Println("═══════════════════════════════════")
			fmt.Println(msg.Result)
			fmt.Println("═══════════════════════════════════")
			return nil
		}
	}
}

func (c *Client) renderEvent(ev *EventView) {
	if ev == nil {
		return
	}
	fmt.Printf("T%-2d %-16s| %s\n", ev.Turn, ev.Type, ev.Details)
}

func (c *Client) renderState(sv *StateView) {
	if sv == nil {
		return
	}
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════════╗")
	opp := sv.Opponent
	fmt.Printf("║  OPPONENT  Energy: %d/%d  Threat: %d/%d  Hand: %d  Deck: %d\n",
		opp.Energy, opp.MaxEnergy, opp.Threat, opp.ThreatMax, opp.HandCount, opp.DeckCount)
	for _, lane := range opp.Lanes {
		fmt.Printf("║    %s [section %d/%d] %s\n", lane.Lane, lane.SectionHull, lane.SectionMax, formatDrones(lane.Drones))
	}
	fmt.Println("║  ──────────────────────────────────────────────────")
	you := sv.You
	for _, lane := range you.Lanes {
		fmt.Printf("║    %s [section %d/%d] %s\n", lane.Lane, lane.SectionHull, lane.SectionMax, formatDrones(lane.Drones))
	}
	fmt.Printf("║  YOU  Energy: %d/%d  Threat: %d/%d  Deck: %d\n",
		you.Energy, you.MaxEnergy, you.Threat, you.ThreatMax, you.DeckCount)
	if len(you.Hand) > 0 {
		fmt.Printf("║  Hand: %s\n", strings.Join(you.Hand, ", "))
	}
	fmt.Println("╚══════════════════════════════════════════════════════╝")
}

func formatDrones(drones []DroneView) string {
	if len(drones) == 0 {
		return "(empty)"
	}
	var parts []string
	for _, d := range drones {
		s := fmt.Sprintf("%s %d/%d", d.Name, d.Attack, d.Hull)
		if d.Shields > 0 {
			s += fmt.Sprintf("+%ds", d.Shields)
		}
		if d.Exhausted {
			s += " (exhausted)"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " | ")
}

func (c *Client) renderActions(actions []ActionView) {
	fmt.Println()
	fmt.Println("Your move:")
	for _, a := range actions {
		fmt.Printf("  [%d] %s\n", a.Index, a.Desc)
	}
}

func (c *Client) renderChain(cv *ChainView) {
	if cv == nil {
		return
	}
	fmt.Printf("\n%s\n", cv.Prompt)
	switch cv.Phase {
	case "destination":
		for i, d := range cv.Dests {
			fmt.Printf("  [%d] %s\n", i, d)
		}
	default:
		for _, t := range cv.Candidates {
			desc := t.Name
			if desc == "" {
				desc = t.Kind
			}
			if t.Lane != "" {
				desc += " @ " + t.Lane
			}
			if t.Hull > 0 {
				desc += fmt.Sprintf(" (%d hull)", t.Hull)
			}
			fmt.Printf("  [%d] P%d %s\n", t.Index, t.Owner+1, desc)
		}
	}
	if cv.Phase == "multi_target" {
		fmt.Println("  enter indexes separated by spaces (empty for none), or 'c' to cancel")
	} else {
		fmt.Println("  enter an index, or 'c' to cancel")
	}
}

// readIndex reads a single numeric choice from stdin. Out-of-range input asks
// again.
func (c *Client) readIndex(reader *bufio.Reader, n int) int {
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return 0
		}
		idx, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && idx >= 0 && idx < n {
			return idx
		}
		fmt.Printf("enter a number between 0 and %d\n", n-1)
	}
}

// readChainSelect reads one chain selection: an index, a multi-target index
// list, or a cancel.
func (c *Client) readChainSelect(reader *bufio.Reader, cv *ChainView) ClientMessage {
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return ClientMessage{Type: "chain_select", Cancel: true}
		}
		line = strings.TrimSpace(line)
		if line == "c" || line == "cancel" {
			return ClientMessage{Type: "chain_select", Cancel: true}
		}
		if cv != nil && cv.Phase == "multi_target" {
			var indices []int
			ok := true
			for _, f := range strings.Fields(line) {
				idx, err := strconv.Atoi(f)
				if err != nil {
					ok = false
					break
				}
				indices = append(indices, idx)
			}
			if ok {
				return ClientMessage{Type: "chain_select", Indices: indices}
			}
		} else {
			if idx, err := strconv.Atoi(line); err == nil {
				return ClientMessage{Type: "chain_select", Index: idx}
			}
		}
		fmt.Println("invalid input")
	}
}

package mcp

import (
	"context"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	lfnet "github.com/lanefall/lanefall/internal/net"
)

// activeSession is the singleton game session (one per stdio process).
var activeSession *GameSession

// squadronFile is the path to the squadrons YAML file, set by main.
var squadronFile string

// port is the TCP port for the human player connection, set by main.
var port string

// SetSquadronFile sets the path to the squadrons YAML file.
func SetSquadronFile(path string) {
	squadronFile = path
}

// SetPort sets the TCP port for the human player connection.
func SetPort(p string) {
	port = p
}

// RegisterTools adds all game tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(startMatchTool(), handleStartMatch)
	s.AddTool(takeActionTool(), handleTakeAction)
	s.AddTool(selectTargetTool(), handleSelectTarget)
	s.AddTool(selectDestinationTool(), handleSelectDestination)
	s.AddTool(selectMultiTool(), handleSelectMulti)
	s.AddTool(cancelChainTool(), handleCancelChain)
	s.AddTool(getMatchStateTool(), handleGetMatchState)
}

// --- Tool definitions ---

func startMatchTool() mcp.Tool {
	return mcp.NewTool("start_match",
		mcp.WithDescription("Start a new lanefall match. Returns the initial game state and first pending decision. "+
			"The human player connects via `lanefall-cli join --addr localhost:<port> --squadron N` in a separate terminal. "+
			"This call blocks until the human connects."),
		mcp.WithNumber("agent_squadron", mcp.Required(), mcp.Description("Squadron number for the agent (1-indexed from squadrons.yaml)")),
		mcp.WithNumber("agent_player", mcp.Required(), mcp.Description("Which player the agent is: 0 = goes first, 1 = goes second")),
	)
}

func takeActionTool() mcp.Tool {
	return mcp.NewTool("take_action",
		mcp.WithDescription("Choose an action from the pending action list. Use this when the pending decision type is 'choose_action'. "+
			"Playing a card or activating an ability may be followed by chain_target / chain_destination / chain_multi decisions."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index of the action to take from the actions list")),
	)
}

func selectTargetTool() mcp.Tool {
	return mcp.NewTool("select_target",
		mcp.WithDescription("Select a target from the pending candidates. Use this when the pending decision type is 'chain_target'."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index into the chain candidates list")),
	)
}

func selectDestinationTool() mcp.Tool {
	return mcp.NewTool("select_destination",
		mcp.WithDescription("Select a destination lane for a pending move. Use this when the pending decision type is 'chain_destination'."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index into the chain dests list")),
	)
}

func selectMultiTool() mcp.Tool {
	return mcp.NewTool("select_multi",
		mcp.WithDescription("Commit a multi-target selection. Use this when the pending decision type is 'chain_multi'."),
		mcp.WithString("indices", mcp.Required(), mcp.Description("Space-separated 0-based indices into the chain candidates list (e.g. '0 2'), or empty string for none")),
	)
}

func cancelChainTool() mcp.Tool {
	return mcp.NewTool("cancel_chain",
		mcp.WithDescription("Abandon the pending chain and return to the action menu. Nothing is spent and no state changes. "+
			"Use this during any chain_* decision."),
	)
}

func getMatchStateTool() mcp.Tool {
	return mcp.NewTool("get_match_state",
		mcp.WithDescription("Get the current game state, accumulated events, and pending decision without submitting a response. Read-only."),
	)
}

// --- Tool handlers ---

func handleStartMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession != nil {
		return mcp.NewToolResultError("A match is already running. Only one match at a time is supported."), nil
	}

	agentSquadron := request.GetInt("agent_squadron", 0)
	agentPlayer := request.GetInt("agent_player", 0)
	if agentSquadron < 1 {
		return mcp.NewToolResultError("agent_squadron must be >= 1"), nil
	}
	if agentPlayer != 0 && agentPlayer != 1 {
		return mcp.NewToolResultError("agent_player must be 0 or 1"), nil
	}

	sess, err := NewGameSession(squadronFile, agentSquadron, agentPlayer, port)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start match: %v", err), nil
	}
	activeSession = sess

	resp, err := sess.waitForPending()
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for first decision: %v", err), nil
	}
	resp.Port = port
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

// respondAndWait sends a response to the agent controller and waits for the
// next pending decision.
func respondAndWait(sess *GameSession, response any) (*mcp.CallToolResult, error) {
	sess.agentCtrl.responseCh <- response
	resp, err := sess.waitForPending()
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for next decision: %v", err), nil
	}
	if resp.GameOver {
		activeSession = nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

// checkPending validates that the active session is waiting on the agent for
// the given decision type. Returns a non-nil error result on mismatch.
func checkPending(want DecisionType) (*GameSession, *mcp.CallToolResult) {
	if activeSession == nil {
		return nil, mcp.NewToolResultError("No match is running. Use start_match first.")
	}
	sess := activeSession
	pending := sess.currentPending
	if pending == nil {
		return nil, mcp.NewToolResultError("No pending decision.")
	}
	if pending.Player != sess.agentPlayer {
		return nil, mcp.NewToolResultError("Waiting for human player to respond via their terminal.")
	}
	if pending.Type != want {
		return nil, mcp.NewToolResultErrorf("Wrong tool: pending decision is '%s', not '%s'. Use the correct tool.", pending.Type, want)
	}
	return sess, nil
}

func handleTakeAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := checkPending(DecisionChooseAction)
	if errResult != nil {
		return errResult, nil
	}
	index := request.GetInt("index", -1)
	if index < 0 || index >= len(sess.currentPending.Actions) {
		return mcp.NewToolResultErrorf("Invalid index %d. Must be 0-%d.", index, len(sess.currentPending.Actions)-1), nil
	}
	return respondAndWait(sess, ActionResponse{Index: index})
}

func handleSelectTarget(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := checkPending(DecisionChainTarget)
	if errResult != nil {
		return errResult, nil
	}
	index := request.GetInt("index", -1)
	n := len(sess.currentPending.Chain.Candidates)
	if index < 0 || index >= n {
		return mcp.NewToolResultErrorf("Invalid index %d. Must be 0-%d.", index, n-1), nil
	}
	return respondAndWait(sess, ChainResponse{Index: index})
}

func handleSelectDestination(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := checkPending(DecisionChainDestination)
	if errResult != nil {
		return errResult, nil
	}
	index := request.GetInt("index", -1)
	n := len(sess.currentPending.Chain.Dests)
	if index < 0 || index >= n {
		return mcp.NewToolResultErrorf("Invalid index %d. Must be 0-%d.", index, n-1), nil
	}
	return respondAndWait(sess, ChainResponse{Index: index})
}

func handleSelectMulti(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := checkPending(DecisionChainMulti)
	if errResult != nil {
		return errResult, nil
	}
	indicesStr := request.GetString("indices", "")
	var indices []int
	n := len(sess.currentPending.Chain.Candidates)
	for _, p := range strings.Fields(indicesStr) {
		idx, err := strconv.Atoi(p)
		if err != nil {
			return mcp.NewToolResultErrorf("Invalid index '%s': must be an integer.", p), nil
		}
		if idx < 0 || idx >= n {
			return mcp.NewToolResultErrorf("Index %d out of range. Must be 0-%d.", idx, n-1), nil
		}
		indices = append(indices, idx)
	}
	return respondAndWait(sess, ChainResponse{Indices: indices})
}

func handleCancelChain(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("No match is running. Use start_match first."), nil
	}
	sess := activeSession
	pending := sess.currentPending
	if pending == nil || pending.Player != sess.agentPlayer {
		return mcp.NewToolResultError("No pending agent decision to cancel."), nil
	}
	switch pending.Type {
	case DecisionChainTarget, DecisionChainDestination, DecisionChainMulti:
		return respondAndWait(sess, ChainResponse{Cancel: true})
	default:
		return mcp.NewToolResultErrorf("Pending decision '%s' is not a chain prompt.", pending.Type), nil
	}
}

func handleGetMatchState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("No match is running. Use start_match first."), nil
	}
	sess := activeSession
	events := sess.drainEvents()

	sess.mu.Lock()
	gameOver := sess.gameOver
	winner := sess.winner
	result := sess.result
	sess.mu.Unlock()

	resp := &ToolResponse{
		Events:   events,
		GameOver: gameOver,
		Winner:   winner,
		Result:   result,
	}
	if gameOver {
		if sess.currentPending != nil {
			resp.State = sess.currentPending.State
		}
	} else if sess.match != nil {
		resp.State = lfnet.BuildStateView(sess.match, sess.agentPlayer)
		if sess.currentPending != nil {
			if sess.currentPending.Player != sess.agentPlayer {
				resp.Pending = &PendingView{Type: DecisionChooseAction, ForPlayer: "human"}
			} else {
				resp.Pending = &PendingView{
					Type:      sess.currentPending.Type,
					ForPlayer: "agent",
					Actions:   sess.currentPending.Actions,
					Chain:     sess.currentPending.Chain,
				}
			}
		}
	}
	if resp.Events == nil {
		resp.Events = []lfnet.EventView{}
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

package reallybot

import (
	"fmt"
	"sync"
	"time"

	"github.com/notnil/chess"
	"github.com/notnil/chess/uci"
)

// Limit bounds one delegate engine call.
type Limit struct {
	MoveTime time.Duration
	Depth    int
}

// Engine is the narrow delegate capability the core consumes: a move
// search for a single position. Process lifecycle and binary
// provisioning stay outside the core.
type Engine interface {
	Play(pos *chess.Position, limit Limit) (*chess.Move, error)
	Close() error
}

// EngineOptions is the strength configuration passed through to UCI
// engines that support it (e.g. Stockfish).
type EngineOptions struct {
	SkillLevel *int
	UCIElo     *int
}

// UCIEngine drives one long-lived external UCI process. Calls are
// serialized; the process is shared by all sessions.
type UCIEngine struct {
	mtx sync.Mutex
	eng *uci.Engine
}

func NewUCIEngine(path string, opts EngineOptions) (*UCIEngine, error) {
	eng, err := uci.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngine, err)
	}
	cmds := []uci.Cmd{uci.CmdUCI, uci.CmdIsReady}
	if opts.SkillLevel != nil {
		cmds = append(cmds, uci.CmdSetOption{Name: "Skill Level", Value: fmt.Sprint(*opts.SkillLevel)})
	}
	if opts.UCIElo != nil {
		cmds = append(cmds,
			uci.CmdSetOption{Name: "UCI_LimitStrength", Value: "true"},
			uci.CmdSetOption{Name: "UCI_Elo", Value: fmt.Sprint(*opts.UCIElo)})
	}
	cmds = append(cmds, uci.CmdUCINewGame)
	if err := eng.Run(cmds...); err != nil {
		eng.Close()
		return nil, fmt.Errorf("%w: %v", ErrEngine, err)
	}
	return &UCIEngine{eng: eng}, nil
}

func (e *UCIEngine) Play(pos *chess.Position, limit Limit) (*chess.Move, error) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	cmdPos := uci.CmdPosition{Position: pos}
	cmdGo := uci.CmdGo{
		MoveTime: limit.MoveTime,
		Depth:    limit.Depth,
	}
	if err := e.eng.Run(cmdPos, cmdGo); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngine, err)
	}
	move := e.eng.SearchResults().BestMove
	if move == nil {
		return nil, fmt.Errorf("%w: engine returned no move", ErrEngine)
	}
	return move, nil
}

func (e *UCIEngine) Close() error {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.eng.Close()
}

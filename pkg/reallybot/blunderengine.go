package reallybot

import (
	"fmt"
	"math"
	"sync"

	"github.com/notnil/chess"
	"github.com/razzie/blunder/engine"
)

var blunderInit sync.Once

// BlunderEngine is the in-process fallback delegate used when no UCI
// binary is configured. Same Play contract, no external process.
type BlunderEngine struct {
	mtx    sync.Mutex
	search engine.Search
}

func NewBlunderEngine() *BlunderEngine {
	blunderInit.Do(func() {
		engine.InitBitboards()
		engine.InitTables()
		engine.InitZobrist()
		engine.InitEvalBitboards()
		engine.InitSearchTables()
	})
	e := &BlunderEngine{}
	e.search.TT.Resize(engine.DefaultTTSize, engine.SearchEntrySize)
	return e
}

func (e *BlunderEngine) Play(pos *chess.Position, limit Limit) (*chess.Move, error) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	maxDepth := uint8(limit.Depth)
	if maxDepth == 0 {
		maxDepth = 20
	}
	moveTime := limit.MoveTime.Milliseconds()
	if moveTime <= 0 {
		moveTime = 100
	}

	timeLeft, increment, movesToGo, maxNodeCount := engine.InfiniteTime, engine.NoValue, int16(engine.NoValue), uint64(math.MaxUint64)
	e.search.Timer.Setup(
		timeLeft,
		increment,
		moveTime,
		movesToGo,
		maxDepth,
		maxNodeCount,
	)
	e.search.Setup(pos.String())

	best := e.search.Search().String()
	move, err := chess.UCINotation{}.Decode(pos, best)
	if err != nil {
		return nil, fmt.Errorf("%w: bad search result %q: %v", ErrEngine, best, err)
	}
	return move, nil
}

func (e *BlunderEngine) Close() error {
	return nil
}

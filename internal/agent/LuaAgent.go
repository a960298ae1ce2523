package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Mshel/snakeagent/internal/game"
	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// MaxScriptTime bounds a single getMove call.
const MaxScriptTime = 50 * time.Millisecond

var ErrScriptReturn = errors.New("lua script returned no move")

// LuaAgent delegates the move to a Lua script:
//
//	function getMove(state)
//	  if cell(state.head.x, state.head.y - 1) == "EMPTY" then return "STRAIGHT" end
//	  return "LEFT"
//	end
//
// Each call runs in a fresh Lua state, so scripts cannot keep globals
// between turns. An optional onDie(score) is called when the snake dies.
type LuaAgent struct {
	Name   string
	Redraw bool
	Grow   bool

	proto *lua.FunctionProto
}

func NewLuaAgent(name, source string, opts Options) (*LuaAgent, error) {
	chunk, err := parse.Parse(strings.NewReader(source), name)
	if err != nil {
		return nil, fmt.Errorf("could not parse lua strategy %s: %w", name, err)
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, fmt.Errorf("could not compile lua strategy %s: %w", name, err)
	}
	return &LuaAgent{Name: name, Redraw: opts.Redraw, Grow: opts.Grow, proto: proto}, nil
}

func (a *LuaAgent) GetMove(state game.TurnState) game.Move {
	move, err := a.scriptMove(state)
	if err != nil {
		fallback, _ := SafeMove(state)
		log.Warn("Lua strategy failed, using fallback", "script", a.Name, "move", fallback, "error", err)
		return fallback
	}
	return move
}

func (a *LuaAgent) scriptMove(state game.TurnState) (game.Move, error) {
	luaState, cancel, err := a.newState()
	if err != nil {
		return game.MoveStraight, err
	}
	defer cancel()
	defer luaState.Close()

	grid := state.Grid
	luaState.SetGlobal("cell", luaState.NewFunction(func(L *lua.LState) int {
		p := game.Position{X: L.CheckInt(1), Y: L.CheckInt(2)}
		L.Push(lua.LString(grid.At(p).String()))
		return 1
	}))

	fn := luaState.GetGlobal("getMove")
	if fn.Type() != lua.LTFunction {
		return game.MoveStraight, fmt.Errorf("%w: getMove is not defined", ErrScriptReturn)
	}
	if err := luaState.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, stateTable(luaState, state)); err != nil {
		return game.MoveStraight, fmt.Errorf("could not execute getMove: %w", err)
	}

	ret := luaState.Get(-1)
	luaState.Pop(1)
	if ret.Type() != lua.LTString {
		return game.MoveStraight, fmt.Errorf("%w: got %s, expected string", ErrScriptReturn, ret.Type().String())
	}
	move, err := game.ParseMove(strings.ToUpper(lua.LVAsString(ret)))
	if err != nil {
		return game.MoveStraight, fmt.Errorf("%w: %w", ErrScriptReturn, err)
	}
	return move, nil
}

func (a *LuaAgent) OnDie(state game.DeathState) {
	luaState, cancel, err := a.newState()
	if err != nil {
		log.Warn("Lua strategy could not start for onDie", "script", a.Name, "error", err)
		return
	}
	defer cancel()
	defer luaState.Close()

	fn := luaState.GetGlobal("onDie")
	if fn.Type() != lua.LTFunction {
		return
	}
	if err := luaState.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, lua.LNumber(state.Score)); err != nil {
		log.Warn("Lua onDie failed", "script", a.Name, "error", err)
	}
}

func (a *LuaAgent) ShouldRedrawBoard() bool         { return a.Redraw }
func (a *LuaAgent) ShouldGrowOnFoodCollision() bool { return a.Grow }

// newState loads the compiled script into a fresh state bounded by MaxScriptTime.
func (a *LuaAgent) newState() (*lua.LState, context.CancelFunc, error) {
	luaState := lua.NewState()
	ctx, cancel := context.WithTimeout(context.Background(), MaxScriptTime)
	luaState.SetContext(ctx)

	luaState.Push(luaState.NewFunctionFromProto(a.proto))
	if err := luaState.PCall(0, lua.MultRet, nil); err != nil {
		cancel()
		luaState.Close()
		return nil, nil, fmt.Errorf("could not load lua strategy %s: %w", a.Name, err)
	}
	return luaState, cancel, nil
}

func positionTable(L *lua.LState, p game.Position) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("x", lua.LNumber(p.X))
	t.RawSetString("y", lua.LNumber(p.Y))
	return t
}

func positionList(L *lua.LState, ps []game.Position) *lua.LTable {
	t := L.NewTable()
	for _, p := range ps {
		t.Append(positionTable(L, p))
	}
	return t
}

func stateTable(L *lua.LState, state game.TurnState) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("head", positionTable(L, state.Head))
	t.RawSetString("direction", lua.LString(state.Direction.String()))
	t.RawSetString("body", positionList(L, state.Body))
	t.RawSetString("food", positionList(L, FindFood(state.Grid)))
	t.RawSetString("score", lua.LNumber(state.Score))
	t.RawSetString("turnsAlive", lua.LNumber(state.TurnsAlive))
	t.RawSetString("turnsToStarve", lua.LNumber(state.TurnsToStarve))
	t.RawSetString("width", lua.LNumber(state.Grid.Width()))
	t.RawSetString("height", lua.LNumber(state.Grid.Height()))
	return t
}

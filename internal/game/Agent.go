package game

// TurnState is everything an agent is told about the current turn. All of it
// is owned by the engine and only valid for the duration of the call.
type TurnState struct {
	Grid          *Grid
	Score         int
	TurnsAlive    int
	TurnsToStarve int // -1 when starvation is disabled
	Direction     Direction
	Head          Position
	Body          []Position // neck first, tail last
}

// DeathState is passed to OnDie. Grid only holds food and walls.
type DeathState struct {
	Head  Position
	Grid  *Grid
	Score int
	Body  []Position
}

// Agent is the brain the engine asks for a move every turn.
type Agent interface {
	GetMove(state TurnState) Move
	OnDie(state DeathState)
	ShouldRedrawBoard() bool
	ShouldGrowOnFoodCollision() bool
}

// Insight describes what an agent was aiming for on its latest turn.
type Insight struct {
	Target    Position
	HasTarget bool
	Route     []Position
	Fallback  bool
}

// Introspector is implemented by agents that can explain their last move.
type Introspector interface {
	LastInsight() Insight
}

// Package clock implements the per-game clock manager (C3): per-engine
// remaining time, increment and movestogo refill, and forfeit detection.
package clock

import (
	"math"
	"time"
)

// Limits are the time-control limits configured for one engine. A zero
// Time/Increment/Movetime means that field is unset; MovesToGo of zero means
// the rest of the game.
type Limits struct {
	Time, Increment, Movetime time.Duration
	MovesToGo                 int
}

// IsTimed reports whether any wall-clock limit applies (as opposed to a bare
// depth/nodes limit, which the clock manager does not enforce).
func (l Limits) IsTimed() bool {
	return l.Time > 0 || l.Increment > 0 || l.Movetime > 0
}

// Manager tracks remaining time for both engines across a game.
type Manager struct {
	limits   [2]Limits
	timeLeft [2]time.Duration
}

// NewManager creates a clock manager seeded with each engine's starting time.
// Limits are engine-indexed, matching the driver's seating, not color-indexed.
func NewManager(first, second Limits) *Manager {
	m := &Manager{limits: [2]Limits{first, second}}
	for ei := range m.limits {
		m.timeLeft[ei] = m.limits[ei].Time
	}
	return m
}

// TimeLeft returns the engine's current remaining time.
func (m *Manager) TimeLeft(ei int) time.Duration {
	return m.timeLeft[ei]
}

// BeforeMove updates timeLeft[ei] in preparation for engine ei's move at the
// given ply (the 0-indexed ply about to be played) and returns the updated
// value, which is also what should be sent to the engine as its clock.
func (m *Manager) BeforeMove(ei, ply int) time.Duration {
	l := m.limits[ei]

	switch {
	case l.Movetime > 0:
		// movetime is exclusive of accumulation.
		m.timeLeft[ei] = l.Movetime

	case l.Time > 0 || l.Increment > 0:
		m.timeLeft[ei] += l.Increment
		if l.MovesToGo > 0 && ply > 1 && (ply/2)%l.MovesToGo == 0 {
			m.timeLeft[ei] += l.Time
		}

	default:
		// Depth/nodes-only limit: a large finite value that cannot overflow
		// once added to a wall-clock deadline.
		m.timeLeft[ei] = time.Duration(math.MaxInt64 / 2)
	}
	return m.timeLeft[ei]
}

// AfterMove decrements timeLeft[ei] by the elapsed wall-clock time taken for
// the move and reports whether the engine has forfeited on time.
func (m *Manager) AfterMove(ei int, elapsed time.Duration) (forfeit bool) {
	m.timeLeft[ei] -= elapsed
	return m.limits[ei].IsTimed() && m.timeLeft[ei] < 0
}

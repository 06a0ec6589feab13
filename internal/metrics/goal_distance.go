package metrics

import "github.com/movlab/motionprim/internal/motion"

// GoalDistance tracks how far the most recent sample sits from a fixed goal;
// after a full run its value is the terminal residual.
type GoalDistance struct {
	name string
	goal motion.State
	last float64
}

func NewGoalDistance(goal motion.State) *GoalDistance {
	return &GoalDistance{name: "goal_distance", goal: goal.Clone()}
}

func (g *GoalDistance) Name() string {
	return g.name
}

func (g *GoalDistance) Observe(t float64, pos, vel motion.State) {
	g.last = pos.Sub(g.goal).Norm()
}

func (g *GoalDistance) Value() float64 {
	return g.last
}

func (g *GoalDistance) Reset() {
	g.last = 0
}

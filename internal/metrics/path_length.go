package metrics

import "github.com/movlab/motionprim/internal/motion"

type PathLength struct {
	name string
	prev motion.State
	sum  float64
}

func NewPathLength() *PathLength {
	return &PathLength{name: "path_length"}
}

func (p *PathLength) Name() string {
	return p.name
}

func (p *PathLength) Observe(t float64, pos, vel motion.State) {
	if p.prev != nil {
		p.sum += pos.Sub(p.prev).Norm()
	}
	p.prev = pos.Clone()
}

func (p *PathLength) Value() float64 {
	return p.sum
}

func (p *PathLength) Reset() {
	p.prev = nil
	p.sum = 0
}

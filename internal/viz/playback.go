package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/movlab/motionprim/internal/motion"
)

const (
	playbackWidth  = 60
	playbackHeight = 18
	minSpeed       = 0.25
	maxSpeed       = 8.0
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(36)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	runStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	pauseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Player replays a reproduced trajectory at recorded speed in the
// terminal, standing in for the robot that would execute it.
type Player struct {
	name    string
	tr      *motion.Trajectory
	canvas  *Canvas
	fps     int
	frame   int
	clock   float64
	speed   float64
	playing bool
	done    bool
}

func NewPlayer(name string, tr *motion.Trajectory, fps int) Player {
	return Player{
		name:    name,
		tr:      tr,
		canvas:  NewCanvas(playbackWidth, playbackHeight),
		fps:     fps,
		speed:   1.0,
		playing: true,
	}
}

// Run replays the trajectory until the user quits.
func Run(name string, tr *motion.Trajectory, fps int) error {
	if tr.Len() == 0 {
		return fmt.Errorf("viz: empty trajectory")
	}
	if fps <= 0 {
		return fmt.Errorf("viz: frame rate must be positive, got %d", fps)
	}
	_, err := tea.NewProgram(NewPlayer(name, tr, fps)).Run()
	return err
}

func (p Player) Init() tea.Cmd { return p.tick() }

func (p Player) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(p.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (p Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return p, tea.Quit
		case " ":
			if p.done {
				p.restart()
			} else {
				p.playing = !p.playing
			}
		case "r":
			p.restart()
		case "left", "h":
			p.scrub(-p.scrubStep())
		case "right", "l":
			p.scrub(p.scrubStep())
		case "+", "=":
			if p.speed*2 <= maxSpeed {
				p.speed *= 2
			}
		case "-", "_":
			if p.speed/2 >= minSpeed {
				p.speed /= 2
			}
		}
	case TickMsg:
		if p.playing {
			p.clock += p.speed / float64(p.fps)
			p.advance()
		}
		return p, p.tick()
	}
	return p, nil
}

func (p *Player) restart() {
	p.frame, p.clock = 0, 0
	p.playing, p.done = true, false
}

func (p *Player) scrubStep() int {
	if step := p.tr.Len() / 100; step > 1 {
		return step
	}
	return 1
}

func (p *Player) scrub(delta int) {
	p.frame += delta
	if p.frame < 0 {
		p.frame = 0
	}
	if p.frame > p.tr.Len()-1 {
		p.frame = p.tr.Len() - 1
	}
	p.clock = p.tr.Times[p.frame] - p.tr.Times[0]
	p.done = p.frame == p.tr.Len()-1
}

// advance moves the frame pointer to match the replay clock.
func (p *Player) advance() {
	for p.frame+1 < p.tr.Len() && p.tr.Times[p.frame+1]-p.tr.Times[0] <= p.clock {
		p.frame++
	}
	if p.frame == p.tr.Len()-1 {
		p.playing, p.done = false, true
	}
}

func (p Player) View() string {
	p.canvas.Clear()
	drawPath(p.canvas, p.tr, p.frame)
	p.stampMarker()

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(p.name)) + "\n")
	s.WriteString(p.status() + "\n\n")

	elapsed := p.tr.Times[p.frame] - p.tr.Times[0]
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs / %.2fs", elapsed, p.tr.Duration())) + "\n")
	s.WriteString(labelStyle.Render("Frame") + valueStyle.Render(fmt.Sprintf("%d / %d", p.frame+1, p.tr.Len())) + "\n")
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%.2fx", p.speed)) + "\n")

	s.WriteString("\nPOSITION\n")
	dims := p.tr.Dims()
	if dims > 6 {
		dims = 6
	}
	for d := 0; d < dims; d++ {
		s.WriteString(labelStyle.Render(fmt.Sprintf("x%d", d)) + valueStyle.Render(fmt.Sprintf("%+.4f", p.tr.States[p.frame][d])) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause R:Restart H/L:Scrub\n+/-:Speed Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(p.canvas.String()),
		statsStyle.Render(s.String()),
	)
}

func (p Player) status() string {
	switch {
	case p.done:
		return pauseStyle.Render("DONE")
	case p.playing:
		return runStyle.Render("PLAYING")
	default:
		return pauseStyle.Render("PAUSED")
	}
}

func (p Player) stampMarker() {
	xs, ys := planarSeries(p.tr)
	px := projector(xs, p.canvas.Width*2-1)
	py := projector(ys, p.canvas.Height*4-1)
	x := px(xs[p.frame])
	y := flip(py(ys[p.frame]), p.canvas.Height*4-1)
	p.canvas.Stamp(x, y, '●')
}

package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/dvd-bounce/trajectory"
)

// CountdownFormat is the overlay drawn at cell (1,0) while a corner hit is predicted
const CountdownFormat = "Time left until corner hit: %d frames - (%d seconds)"

// Renderer is the per-frame drawing surface
type Renderer interface {
	trajectory.Drawer
	Clear()
	DrawText(col, row int, text string, c colorful.Color)
	Show()
}

// QuitSource is polled once per frame without blocking
type QuitSource interface {
	QuitRequested() bool
}

// Sound plays the boundary cues
type Sound interface {
	Bounce()
	Corner()
}

// State is the loop lifecycle
type State uint8

const (
	StateIdle State = iota
	StateRunning
	StateTerminated
)

// Deps are the collaborators of a Loop. Nil fields get inert defaults, Renderer is required
type Deps struct {
	Renderer Renderer
	Quit     QuitSource
	Pacer    Pacer
	Sound    Sound
	Clock    TimeProvider
	Logger   *slog.Logger
}

// Options tune a Loop. MaxFrames 0 means no limit
type Options struct {
	FPS       int
	MaxFrames int
	TextColor colorful.Color
}

type neverQuit struct{}

func (neverQuit) QuitRequested() bool { return false }

type silent struct{}

func (silent) Bounce() {}
func (silent) Corner() {}

// Loop drives an Engine one frame at a time until quit, the predicted horizon, or the frame limit
type Loop struct {
	eng  *trajectory.Engine
	deps Deps
	opts Options

	state   State
	frames  int
	horizon trajectory.Horizon
}

func NewLoop(eng *trajectory.Engine, deps Deps, opts Options) *Loop {
	if deps.Quit == nil {
		deps.Quit = neverQuit{}
	}
	if deps.Pacer == nil {
		deps.Pacer = NopPacer{}
	}
	if deps.Sound == nil {
		deps.Sound = silent{}
	}
	if deps.Clock == nil {
		deps.Clock = NewMonotonicTimeProvider()
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.FPS < 1 {
		opts.FPS = 60
	}
	return &Loop{eng: eng, deps: deps, opts: opts}
}

func (l *Loop) State() State                { return l.state }
func (l *Loop) Frames() int                 { return l.frames }
func (l *Loop) Horizon() trajectory.Horizon { return l.horizon }

// Run predicts the horizon from the current engine state and plays frames
// until a termination condition holds. A render failure aborts the run and
// is returned alongside the partial report
func (l *Loop) Run(ctx context.Context) (Report, error) {
	if l.state != StateIdle {
		return Report{}, fmt.Errorf("engine: loop already %s", l.stateName())
	}
	l.state = StateRunning

	l.horizon = l.eng.PredictHorizon()
	exact, exactOK := l.eng.SolveCornerHit()
	start := l.deps.Clock.Now()

	report := Report{
		RunID:      uuid.New(),
		Arena:      l.eng.Arena(),
		Sprite:     l.eng.Sprite(),
		Start:      l.eng.Pos(),
		Velocity:   l.eng.Vel(),
		Horizon:    l.horizon,
		ExactFrame: exact,
		ExactOK:    exactOK,
	}
	log := l.deps.Logger.With("run_id", report.RunID.String())
	log.Info("run started",
		"arena", fmt.Sprintf("%dx%d", report.Arena.Width, report.Arena.Height),
		"sprite", fmt.Sprintf("%dx%d", report.Sprite.Width, report.Sprite.Height),
		"x", report.Start.X, "y", report.Start.Y,
		"dx", report.Velocity.DX, "dy", report.Velocity.DY,
		"horizon", l.horizon.String(),
		"exact", exact, "exact_ok", exactOK,
	)

	r := l.deps.Renderer
	for l.state == StateRunning {
		if ctx.Err() != nil || l.deps.Quit.QuitRequested() {
			l.terminate(&report, ReasonQuit)
			break
		}

		r.Clear()

		res := l.eng.Advance()
		if res.Hit() {
			l.deps.Sound.Bounce()
			log.Debug("bounce", "tick", l.eng.Tick(), "hit_x", res.HitX, "hit_y", res.HitY)
		}

		if err := l.eng.Render(r); err != nil {
			l.terminate(&report, ReasonError)
			l.finish(&report, start)
			log.Error("render failed", "tick", l.eng.Tick(), "error", err)
			return report, fmt.Errorf("engine: frame %d: %w", l.frames+1, err)
		}

		if l.eng.AtCorner() && l.eng.OnCornerHit() {
			if !report.CornerHit {
				report.CornerHit = true
				report.HitFrame = l.eng.Tick()
			}
			l.deps.Sound.Corner()
			log.Info("corner hit", "tick", l.eng.Tick(), "x", l.eng.Pos().X, "y", l.eng.Pos().Y)
		}

		if rem := l.horizon.Remaining(l.frames); rem.IsFinite() && rem >= 0 {
			r.DrawText(1, 0, CountdownText(rem, l.opts.FPS), l.opts.TextColor)
		}

		r.Show()
		l.deps.Pacer.Wait(ctx)
		l.frames++

		switch {
		case l.horizon.Reached(l.frames):
			l.terminate(&report, ReasonHorizon)
		case l.opts.MaxFrames > 0 && l.frames >= l.opts.MaxFrames:
			l.terminate(&report, ReasonLimit)
		}
	}

	l.finish(&report, start)
	log.Info("run terminated",
		"reason", report.Reason.String(),
		"frames", report.Frames,
		"corner_hit", report.CornerHit,
		"hit_frame", report.HitFrame,
		"bounces", report.Bounces,
	)
	return report, nil
}

func (l *Loop) terminate(report *Report, reason Reason) {
	l.state = StateTerminated
	report.Reason = reason
}

func (l *Loop) finish(report *Report, start time.Time) {
	report.Frames = l.frames
	report.Bounces = l.eng.Bounces()
	report.CornerHits = l.eng.CornerHits()
	report.ColorChanges = l.eng.ColorChanges()
	report.Elapsed = l.deps.Clock.Now().Sub(start)
}

func (l *Loop) stateName() string {
	switch l.state {
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	}
	return "idle"
}

// CountdownText renders the remaining horizon in frames and in seconds at fps
func CountdownText(remaining trajectory.Horizon, fps int) string {
	frames := math.Round(float64(remaining))
	return fmt.Sprintf(CountdownFormat, int(frames), int(math.Round(float64(remaining)/float64(fps))))
}

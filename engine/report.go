package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/dvd-bounce/trajectory"
)

// Reason records why a run terminated
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonQuit
	ReasonHorizon
	ReasonLimit
	ReasonError
)

func (r Reason) String() string {
	switch r {
	case ReasonQuit:
		return "quit"
	case ReasonHorizon:
		return "horizon"
	case ReasonLimit:
		return "limit"
	case ReasonError:
		return "error"
	}
	return "none"
}

// Report summarizes one run for the terminal and the log
type Report struct {
	RunID uuid.UUID

	Arena    trajectory.Arena
	Sprite   trajectory.Size
	Start    trajectory.Pos
	Velocity trajectory.Vel

	Horizon    trajectory.Horizon
	ExactFrame int
	ExactOK    bool

	Frames       int
	Reason       Reason
	CornerHit    bool
	HitFrame     int
	Bounces      int
	CornerHits   int
	ColorChanges int
	Elapsed      time.Duration
}

// Prediction is the message announced before the first frame
func (r Report) Prediction() string {
	if !r.Horizon.IsFinite() {
		return "The DVD logo will never hit a corner."
	}
	return fmt.Sprintf("The DVD logo will hit a corner in %.2f frames.", float64(r.Horizon))
}

// Verdict compares the outcome with the prediction once the horizon is reached
func (r Report) Verdict() string {
	switch r.Reason {
	case ReasonHorizon:
		if !r.CornerHit {
			return "The DVD logo did not hit a corner within the expected time."
		}
		return fmt.Sprintf("The DVD logo hit a corner at frame %d.", r.HitFrame)
	case ReasonQuit, ReasonLimit:
		if r.CornerHit {
			return fmt.Sprintf("Stopped (%s) after %d frames; the DVD logo hit a corner at frame %d.", r.Reason, r.Frames, r.HitFrame)
		}
		return fmt.Sprintf("Stopped (%s) after %d frames without a corner hit.", r.Reason, r.Frames)
	}
	return ""
}

// Summary is the full text printed after the terminal is restored
func (r Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s: arena %dx%d, logo %dx%d, start (%d,%d) velocity (%d,%d)\n",
		r.RunID, r.Arena.Width, r.Arena.Height, r.Sprite.Width, r.Sprite.Height,
		r.Start.X, r.Start.Y, r.Velocity.DX, r.Velocity.DY)
	b.WriteString(r.Prediction())
	b.WriteByte('\n')
	if r.ExactOK {
		fmt.Fprintf(&b, "Exact first corner hit: frame %d.\n", r.ExactFrame)
	} else {
		b.WriteString("Exact solution: no corner is ever reached.\n")
	}
	if v := r.Verdict(); v != "" {
		b.WriteString(v)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%d frames, %d bounces, %d corner hits, %d color changes in %s\n",
		r.Frames, r.Bounces, r.CornerHits, r.ColorChanges, r.Elapsed.Round(time.Millisecond))
	return b.String()
}

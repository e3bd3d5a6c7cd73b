package input

import (
	"github.com/gdamore/tcell/v2"
)

// Action is what a terminal event asks the loop to do
type Action uint8

const (
	ActionNone Action = iota
	ActionQuit
	ActionToggleMute
)

// runeActions maps plain keys to actions
var runeActions = map[rune]Action{
	'q': ActionQuit,
	'Q': ActionQuit,
	'm': ActionToggleMute,
	'M': ActionToggleMute,
}

// Classify maps a tcell event to an action
func Classify(ev tcell.Event) Action {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return ActionNone
	}
	switch key.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyRune:
		if key.Modifiers()&tcell.ModCtrl != 0 {
			if r := key.Rune(); r == 'c' || r == 'C' {
				return ActionQuit
			}
			return ActionNone
		}
		return runeActions[key.Rune()]
	}
	return ActionNone
}

// eventBuffer bounds the events queued between ticks
const eventBuffer = 100

// Source pumps screen events on a goroutine and is drained once per tick by the loop
type Source struct {
	screen   tcell.Screen
	events   chan tcell.Event
	onToggle func()
	quit     bool
}

// NewSource starts the event pump. The pump ends when PollEvent returns nil after screen.Fini
func NewSource(screen tcell.Screen) *Source {
	s := &Source{
		screen: screen,
		events: make(chan tcell.Event, eventBuffer),
	}
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(s.events)
				return
			}
			s.events <- ev
		}
	}()
	return s
}

// OnToggleMute registers the mute key handler
func (s *Source) OnToggleMute(fn func()) {
	s.onToggle = fn
}

// QuitRequested drains pending events without blocking. Resizes resync the
// screen on the caller's goroutine
func (s *Source) QuitRequested() bool {
	for !s.quit {
		select {
		case ev, ok := <-s.events:
			if !ok {
				s.quit = true
				break
			}
			switch Classify(ev) {
			case ActionQuit:
				s.quit = true
			case ActionToggleMute:
				if s.onToggle != nil {
					s.onToggle()
				}
			}
			if _, resized := ev.(*tcell.EventResize); resized {
				s.screen.Sync()
			}
		default:
			return false
		}
	}
	return true
}

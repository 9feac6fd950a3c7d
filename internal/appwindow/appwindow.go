//go:build !headless

// Package appwindow is the gioui glue: one widget.Layout implementation
// that turns pointer/scroll/key events into internal/input.Mapper
// calls, drives internal/orchestrator.Update once per frame, and
// renders via internal/render.
//
// Grounded on mapview/mapview.go's event loop (gtx.Event(pointer.Filter{...}),
// the drag/scroll/release state machine) generalized to also declare a
// key.Filter and dispatch into internal/input's keyboard handling,
// which the original widget did not have.
package appwindow

import (
	"image"
	"log/slog"

	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"

	"github.com/go-slippy/slippy/internal/input"
	"github.com/go-slippy/slippy/internal/mapstate"
	"github.com/go-slippy/slippy/internal/orchestrator"
	"github.com/go-slippy/slippy/internal/render"
)

// View is the top-level widget: one MapState driven by one
// orchestrator.Update per frame, painted via render.Walk/render.Paint.
type View struct {
	State  *mapstate.State
	Logger *slog.Logger

	size image.Point
}

// New builds a View over an already-wired MapState (see
// mapstate.New and cmd/slippy for construction).
func New(s *mapstate.State, logger *slog.Logger) *View {
	return &View{State: s, Logger: logger}
}

// Layout processes this frame's input events, advances the
// orchestrator, and issues the draw calls. tag identifies this widget
// as an event target, mirroring mapview.MapView's use of itself as
// `tag`.
func (v *View) Layout(gtx layout.Context) layout.Dimensions {
	tag := v
	s := v.State

	if v.size != gtx.Constraints.Max {
		v.size = gtx.Constraints.Max
		s.Viewport.ScreenW, s.Viewport.ScreenH = v.size.X, v.size.Y
	}

	for {
		ev, ok := gtx.Event(
			pointer.Filter{Target: tag, Kinds: pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel | pointer.Scroll,
				ScrollY: pointer.ScrollRange{Min: -10, Max: 10}},
			key.Filter{Focus: tag},
		)
		if !ok {
			break
		}

		switch e := ev.(type) {
		case pointer.Event:
			v.handlePointer(e)
		case key.Event:
			if e.State == key.Press {
				v.handleKey(e)
			}
		}
	}

	defer clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, tag)
	key.FocusOp{Tag: tag}.Add(gtx.Ops)

	orchestrator.Update(s, v.Logger)

	calls := render.Walk(s.Viewport, s.Cache, s.ZoomAnim.DisplayZoom)
	render.Paint(gtx, calls)

	return layout.Dimensions{Size: v.size}
}

func (v *View) handlePointer(e pointer.Event) {
	s := v.State
	m := s.Mapper
	switch e.Kind {
	case pointer.Press:
		m.BeginDrag(&s.Viewport, &s.Drag, float64(e.Position.X), float64(e.Position.Y))
	case pointer.Drag:
		if s.Drag.Active {
			m.Drag(&s.Viewport, &s.Drag, &s.Velocity, float64(e.Position.X), float64(e.Position.Y))
		}
	case pointer.Release, pointer.Cancel:
		if s.Drag.Active {
			m.EndDrag(&s.Drag)
		}
	case pointer.Scroll:
		m.Scroll(&s.Viewport, &s.ZoomAnim, s.Tau, &s.LastZoomChangeFrame, float64(e.Scroll.Y), float64(e.Position.X), float64(e.Position.Y))
	}
}

func (v *View) handleKey(e key.Event) {
	s := v.State
	k := keyFromEvent(e)
	if k == input.KeyNone {
		return
	}
	s.Mapper.Keyboard(&s.Viewport, &s.ZoomAnim, s.Initial, k)
}

func keyFromEvent(e key.Event) input.Key {
	switch e.Name {
	case key.NameUpArrow:
		return input.KeyUp
	case key.NameDownArrow:
		return input.KeyDown
	case key.NameLeftArrow:
		return input.KeyLeft
	case key.NameRightArrow:
		return input.KeyRight
	case "+", "=":
		return input.KeyZoomIn
	case "-":
		return input.KeyZoomOut
	case "0":
		return input.KeyDigit0
	case "1":
		return input.KeyDigit1
	case "2":
		return input.KeyDigit2
	case "3":
		return input.KeyDigit3
	case "4":
		return input.KeyDigit4
	case "5":
		return input.KeyDigit5
	case "6":
		return input.KeyDigit6
	case "7":
		return input.KeyDigit7
	case "8":
		return input.KeyDigit8
	case "9":
		return input.KeyDigit9
	case key.NameHome:
		return input.KeyHome
	default:
		return input.KeyNone
	}
}

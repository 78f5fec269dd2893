package retrolens

import (
	"image"
	"image/color"

	"gioui.org/app"
	"gioui.org/f32"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"github.com/retrolens/retrolens/utils"
)

// grabTolerance is the distance in canvas pixels from the divider where a press starts dragging it.
const grabTolerance = 12

// nudgeStep is the divider displacement triggered by the arrow keys.
const nudgeStep = 0.01

var (
	defaultBkgColor     = color.NRGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff}
	defaultDividerColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Gui is the preview window of an editing session. The divider can be dragged with
// the pointer or nudged with the arrow keys, every move re-renders the canvas.
// The window is closed with the ESC key.
type Gui struct {
	cfg struct {
		window struct {
			w     float32
			h     float32
			title string
		}
		color struct {
			background color.NRGBA
			divider    color.NRGBA
		}
	}
	session *Session
	drag    dividerDrag
}

// NewGUI initializes the Gio interface showing the session canvas.
func NewGUI(s *Session) *Gui {
	gui := &Gui{session: s}

	b := s.Canvas().Bounds()
	gui.cfg.window.w, gui.cfg.window.h = float32(b.Dx()), float32(b.Dy())
	gui.cfg.window.title = "Drag the divider, press ESC when done"
	gui.cfg.color.background = defaultBkgColor
	gui.cfg.color.divider = defaultDividerColor

	return gui
}

// SetDividerColor changes the color of the divider line.
func (g *Gui) SetDividerColor(c color.NRGBA) {
	g.cfg.color.divider = c
}

// Run is the core method of the Gio GUI application. It blocks until the window is closed.
func (g *Gui) Run() error {
	w := app.NewWindow(
		app.Title(g.cfg.window.title),
		app.Size(unit.Dp(g.cfg.window.w), unit.Dp(g.cfg.window.h)),
	)

	var ops op.Ops
	for e := range w.Events() {
		switch e := e.(type) {
		case system.FrameEvent:
			gtx := layout.NewContext(&ops, e)
			if g.handlePointer(gtx) {
				w.Invalidate()
			}
			g.draw(gtx)
			e.Frame(gtx.Ops)
		case key.Event:
			if e.State != key.Press {
				break
			}
			switch e.Name {
			case key.NameEscape:
				w.Perform(system.ActionClose)
			case key.NameLeftArrow:
				g.session.SetSplit(g.session.Split() - nudgeStep)
				w.Invalidate()
			case key.NameRightArrow:
				g.session.SetSplit(g.session.Split() + nudgeStep)
				w.Invalidate()
			}
		case system.DestroyEvent:
			return e.Err
		}
	}
	return nil
}

// handlePointer moves the divider under the pointer while it's dragged.
// It reports whether the canvas has been re-rendered.
func (g *Gui) handlePointer(gtx layout.Context) bool {
	var changed bool
	width := float64(g.session.Canvas().Bounds().Dx())

	for _, ev := range gtx.Events(g) {
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		split, moved := g.drag.update(e.Type, float64(e.Position.X), width, g.session.Split())
		if moved {
			g.session.SetSplit(split)
			changed = true
		}
	}
	return changed
}

// dividerDrag tracks the divider dragging gesture in canvas pixels.
type dividerDrag struct {
	active bool
}

// update feeds a pointer event at the horizontal position x of a view having the
// provided width. A press grabs the divider only within grabTolerance of its
// current position. It returns the new split position and whether it moved.
func (d *dividerDrag) update(typ pointer.Type, x, width, split float64) (float64, bool) {
	if width <= 0 {
		return split, false
	}

	switch typ {
	case pointer.Press:
		divider := width * split
		d.active = x >= divider-grabTolerance && x <= divider+grabTolerance
	case pointer.Drag:
		if d.active {
			return utils.Clamp(x/width, 0, 1), true
		}
	case pointer.Release, pointer.Cancel:
		d.active = false
	}
	return split, false
}

// draw paints the canvas stretched over the window together with the divider line.
func (g *Gui) draw(gtx layout.Context) {
	paint.Fill(gtx.Ops, g.cfg.color.background)

	canvas := g.session.Canvas()
	cw, ch := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	if cw == 0 || ch == 0 {
		return
	}

	// From here on everything is expressed in canvas pixels,
	// including the pointer positions received by the input handler.
	scale := f32.Pt(
		float32(gtx.Constraints.Max.X)/float32(cw),
		float32(gtx.Constraints.Max.Y)/float32(ch),
	)
	op.Affine(f32.Affine2D{}.Scale(f32.Point{}, scale)).Add(gtx.Ops)

	area := clip.Rect{Max: image.Pt(cw, ch)}.Push(gtx.Ops)
	pointer.InputOp{
		Tag:   g,
		Types: pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel,
		Grab:  g.drag.active,
	}.Add(gtx.Ops)

	paint.NewImageOp(canvas).Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
	area.Pop()

	x := int(float64(cw)*g.session.Split() + 0.5)
	divider := clip.Rect{
		Min: image.Pt(x-1, 0),
		Max: image.Pt(x+1, ch),
	}
	paint.FillShape(gtx.Ops, g.cfg.color.divider, divider.Op())
}

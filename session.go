package retrolens

import (
	"errors"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/retrolens/retrolens/utils"
)

// ErrNoImage is returned when exporting a session without a loaded photo.
var ErrNoImage = errors.New("no image loaded")

// DefaultSplit places the divider in the middle of the canvas.
const DefaultSplit = 0.5

// Session holds the state of one editing session: the loaded photo, the divider
// position, the grain intensity and the renderer drawing them.
// Every change re-renders the canvas synchronously.
type Session struct {
	renderer *Renderer
	opts     Options
	img      *image.NRGBA
	split    float64
	grain    float64
}

// NewSession creates an editing session with no photo loaded.
func NewSession(opts Options) *Session {
	if opts.Width <= 0 {
		opts.Width = CanvasWidth
	}
	if opts.Height <= 0 {
		opts.Height = CanvasHeight
	}
	return &Session{
		renderer: NewRenderer(opts),
		opts:     opts,
		split:    DefaultSplit,
	}
}

// Load replaces the current photo, switches the canvas to its editing size and renders it.
// The session keeps its own copy of the photo, later changes of img are not reflected.
func (s *Session) Load(img image.Image) {
	if img == nil {
		return
	}
	s.img = imaging.Clone(img)
	s.renderer.Invalidate()
	s.renderer.Resize(s.opts.Width, s.opts.Height)
	s.Render()
}

// LoadFrom decodes a photo from the reader and loads it.
// The current photo is kept in case of an error.
func (s *Session) LoadFrom(r io.Reader) error {
	img, err := decodeImg(r)
	if err != nil {
		return err
	}
	s.Load(img)

	return nil
}

// Loaded reports whether a photo has been loaded.
func (s *Session) Loaded() bool {
	return s.img != nil
}

// Split returns the current divider position.
func (s *Session) Split() float64 {
	return s.split
}

// SetSplit moves the divider to the provided fraction of the canvas width.
func (s *Session) SetSplit(v float64) {
	s.split = utils.Clamp(v, 0, 1)
	s.Render()
}

// SetSplitFromPointer moves the divider under the pointer, x being the pointer
// position relative to the left edge of a view having the provided width.
func (s *Session) SetSplitFromPointer(x, width float64) {
	if width <= 0 {
		return
	}
	s.SetSplit(x / width)
}

// Grain returns the current grain intensity.
func (s *Session) Grain() float64 {
	return s.grain
}

// SetGrain changes the grain intensity.
func (s *Session) SetGrain(v float64) {
	s.grain = utils.Clamp(v, 0, 1)
	s.Render()
}

// SetGrainLevel changes the grain intensity from a slider value in the [0, 100] range.
func (s *Session) SetGrainLevel(level int) {
	s.SetGrain(GrainIntensity(level))
}

// GrainIntensity converts a slider value in the [0, 100] range to a grain intensity.
func GrainIntensity(level int) float64 {
	return utils.Clamp(float64(level)/100, 0, 1)
}

// SetPreset selects the film preset of the filtered region by its name.
func (s *Session) SetPreset(name string) error {
	p, err := LookupPreset(name)
	if err != nil {
		return err
	}
	s.renderer.SetPreset(p)
	s.Render()

	return nil
}

// Canvas returns the rendered canvas.
func (s *Session) Canvas() *image.NRGBA {
	return s.renderer.Canvas()
}

// Render redraws the canvas with the current state.
func (s *Session) Render() {
	s.renderer.Render(s.img, s.split, s.grain)
}

// Export encodes the canvas in the format matching the extension.
func (s *Session) Export(w io.Writer, ext string, quality int) error {
	if s.img == nil {
		return ErrNoImage
	}
	return encodeImg(w, s.renderer.Canvas(), ext, quality)
}

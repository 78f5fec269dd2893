package retrolens

import (
	"fmt"
	"io"

	"github.com/retrolens/retrolens/utils"
)

// DefaultPreset is the preset used when no preset name is provided.
const DefaultPreset = "historical"

// Processor options
type Processor struct {
	Split        float64
	GrainLevel   int
	Preset       string
	Width        int
	Height       int
	Quality      int
	Seed         int64
	DividerColor string
	Spinner      *utils.Spinner
	Preview      bool
}

// Session creates an editing session configured with the processor options.
func (p *Processor) Session() (*Session, error) {
	name := p.Preset
	if name == "" {
		name = DefaultPreset
	}
	preset, err := LookupPreset(name)
	if err != nil {
		return nil, err
	}

	return NewSession(Options{
		Width:  p.Width,
		Height: p.Height,
		Preset: &preset,
		Seed:   p.Seed,
	}), nil
}

// Process decodes the photo from the reader, renders the split view and
// writes the result into the writer. In preview mode the result is exported
// once the preview window is closed, keeping the divider position set there.
func (p *Processor) Process(r io.Reader, w io.Writer) error {
	s, err := p.Session()
	if err != nil {
		return err
	}
	if err := s.LoadFrom(r); err != nil {
		return err
	}
	s.SetSplit(p.Split)
	s.SetGrainLevel(p.GrainLevel)

	if p.Preview {
		gui := NewGUI(s)
		if p.DividerColor != "" {
			gui.SetDividerColor(utils.HexToRGBA(p.DividerColor))
		}
		if err := gui.Run(); err != nil {
			return fmt.Errorf("preview window: %w", err)
		}
	}

	if err := s.Export(w, extOf(w), p.Quality); err != nil {
		return fmt.Errorf("could not encode the image: %w", err)
	}
	return nil
}

package imop

import (
	"fmt"
	"math"

	"github.com/retrolens/retrolens/utils"
)

// Separable blend modes.
const (
	Normal     = "normal"
	Darken     = "darken"
	Lighten    = "lighten"
	Multiply   = "multiply"
	Screen     = "screen"
	Overlay    = "overlay"
	SoftLight  = "soft_light"
	HardLight  = "hard_light"
	Difference = "difference"
	Exclusion  = "exclusion"
)

// Non-separable blend modes.
const (
	Hue        = "hue"
	Saturation = "saturation"
	ColorMode  = "color"
	Luminosity = "luminosity"
)

var blendModes = []string{
	Normal, Darken, Lighten, Multiply, Screen, Overlay, SoftLight, HardLight,
	Difference, Exclusion, Hue, Saturation, ColorMode, Luminosity,
}

// Color represents the RGB channels of a pixel normalized to the [0, 1] range.
type Color struct {
	R, G, B float64
}

// Blend holds the currently active blend mode.
type Blend struct {
	OpType string
}

// NewBlend initializes a new Blend.
func NewBlend() *Blend {
	return &Blend{}
}

// Set activates one of the supported blend modes.
func (o *Blend) Set(opType string) error {
	if !utils.Contains(blendModes, opType) {
		return fmt.Errorf("unsupported blend mode: %q", opType)
	}
	o.OpType = opType

	return nil
}

// Get returns the currently active blend mode.
func (o *Blend) Get() string {
	return o.OpType
}

// Apply mixes the source color cs with the backdrop color cb.
func (o *Blend) Apply(cs, cb Color) Color {
	switch o.OpType {
	case Hue:
		return o.SetLum(o.SetSat(cs, o.Sat(cb)), o.Lum(cb))
	case Saturation:
		return o.SetLum(o.SetSat(cb, o.Sat(cs)), o.Lum(cb))
	case ColorMode:
		return o.SetLum(cs, o.Lum(cb))
	case Luminosity:
		return o.SetLum(cb, o.Lum(cs))
	}
	return Color{
		R: o.channel(cs.R, cb.R),
		G: o.channel(cs.G, cb.G),
		B: o.channel(cs.B, cb.B),
	}
}

// channel applies a separable blend mode on a single color channel.
func (o *Blend) channel(s, b float64) float64 {
	switch o.OpType {
	case Darken:
		return utils.Min(s, b)
	case Lighten:
		return utils.Max(s, b)
	case Multiply:
		return s * b
	case Screen:
		return s + b - s*b
	case Overlay:
		return hardLight(b, s)
	case HardLight:
		return hardLight(s, b)
	case SoftLight:
		if s <= 0.5 {
			return b - (1-2*s)*b*(1-b)
		}
		var d float64
		if b <= 0.25 {
			d = ((16*b-12)*b + 4) * b
		} else {
			d = math.Sqrt(b)
		}
		return b + (2*s-1)*(d-b)
	case Difference:
		return math.Abs(s - b)
	case Exclusion:
		return s + b - 2*s*b
	}
	return s
}

func hardLight(s, b float64) float64 {
	if s <= 0.5 {
		return b * 2 * s
	}
	return 1 - (1-b)*(1-(2*s-1))
}

// Lum returns the luminosity of a color.
func (o *Blend) Lum(rgb Color) float64 {
	return 0.3*rgb.R + 0.59*rgb.G + 0.11*rgb.B
}

// SetLum shifts the color so that its luminosity equals l.
func (o *Blend) SetLum(rgb Color, l float64) Color {
	delta := l - o.Lum(rgb)
	return o.clip(Color{
		R: rgb.R + delta,
		G: rgb.G + delta,
		B: rgb.B + delta,
	})
}

// clip brings the channels back into the [0, 1] range while preserving the luminosity.
func (o *Blend) clip(rgb Color) Color {
	l := o.Lum(rgb)
	n := utils.Min(rgb.R, utils.Min(rgb.G, rgb.B))
	x := utils.Max(rgb.R, utils.Max(rgb.G, rgb.B))

	if n < 0 && l-n != 0 {
		rgb.R = l + (rgb.R-l)*l/(l-n)
		rgb.G = l + (rgb.G-l)*l/(l-n)
		rgb.B = l + (rgb.B-l)*l/(l-n)
	}
	if x > 1 && x-l != 0 {
		rgb.R = l + (rgb.R-l)*(1-l)/(x-l)
		rgb.G = l + (rgb.G-l)*(1-l)/(x-l)
		rgb.B = l + (rgb.B-l)*(1-l)/(x-l)
	}
	return rgb
}

// Sat returns the saturation of a color.
func (o *Blend) Sat(rgb Color) float64 {
	return utils.Max(rgb.R, utils.Max(rgb.G, rgb.B)) - utils.Min(rgb.R, utils.Min(rgb.G, rgb.B))
}

// SetSat rescales the color channels so that the saturation equals s.
func (o *Blend) SetSat(rgb Color, s float64) Color {
	channels := []*float64{&rgb.R, &rgb.G, &rgb.B}

	// Sort the channel pointers into min, mid, max.
	for i := 0; i < len(channels); i++ {
		for j := i + 1; j < len(channels); j++ {
			if *channels[j] < *channels[i] {
				channels[i], channels[j] = channels[j], channels[i]
			}
		}
	}
	cmin, cmid, cmax := channels[0], channels[1], channels[2]

	if *cmax > *cmin {
		*cmid = (*cmid - *cmin) * s / (*cmax - *cmin)
		*cmax = s
	} else {
		*cmid, *cmax = 0, 0
	}
	*cmin = 0

	return rgb
}

package retrolens

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/retrolens/retrolens/imop"
	"github.com/retrolens/retrolens/utils"
)

var (
	// ErrUnknownPreset is returned when looking up a film preset which is not registered.
	ErrUnknownPreset = errors.New("unknown film preset")
	// ErrInvalidPreset is returned for a preset whose tint uses an unknown blend mode.
	ErrInvalidPreset = errors.New("invalid film preset")
)

// Preset describes the look applied to the filtered ("past") region of the split view.
// The adjustments are applied in field order. Contrast and Brightness are factors,
// where 1 leaves the image unchanged.
type Preset struct {
	Name string
	// Sepia is the sepia toning amount in the [0, 1] range.
	Sepia float64
	// Saturation is a percentage in the [-100, 100] range, -100 being a monochrome image.
	Saturation float64
	Contrast   float64
	Brightness float64
	// Lift raises (or lowers) all the channels by a percentage, washing out the blacks.
	Lift float64
	// Blur is the sigma of the gaussian softening, 0 disables it.
	Blur float64
	// Tint is blended over the image using TintMode, normal when empty. A zero alpha disables it.
	Tint     color.NRGBA
	TintMode string
}

// The film presets selectable in the editor. Historical is the default one.
var (
	None = Preset{
		Name:       "none",
		Contrast:   1,
		Brightness: 1,
	}
	Historical = Preset{
		Name:       "historical",
		Sepia:      0.4,
		Contrast:   1.1,
		Brightness: 0.9,
	}
	Kodachrome = Preset{
		Name:       "kodachrome",
		Sepia:      0.1,
		Saturation: 25,
		Contrast:   1.15,
		Brightness: 1,
		Tint:       color.NRGBA{R: 255, G: 140, B: 60, A: 24},
		TintMode:   imop.SoftLight,
	}
	TriX = Preset{
		Name:       "tri-x",
		Saturation: -100,
		Contrast:   1.3,
		Brightness: 0.95,
	}
	Faded = Preset{
		Name:       "faded",
		Sepia:      0.2,
		Contrast:   0.85,
		Brightness: 1,
		Lift:       8,
		Blur:       0.6,
		Tint:       color.NRGBA{R: 112, G: 66, B: 20, A: 40},
		TintMode:   imop.ColorMode,
	}
)

var presets = []Preset{None, Historical, Kodachrome, TriX, Faded}

// PresetNames returns the names of the registered presets.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for _, p := range presets {
		names = append(names, p.Name)
	}
	return names
}

// LookupPreset returns the preset registered under the provided name.
func LookupPreset(name string) (Preset, error) {
	for _, p := range presets {
		if p.Name == name {
			if err := p.Validate(); err != nil {
				return Preset{}, err
			}
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// Validate checks that the tint blend mode, when a tint is set, is a supported one.
func (p Preset) Validate() error {
	if p.Tint.A == 0 {
		return nil
	}
	if err := imop.NewBlend().Set(tintMode(p.TintMode)); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidPreset, p.Name, err)
	}
	return nil
}

// Apply returns a new image with the preset adjustments applied on src.
// The source image is not modified. The tint of a preset failing Validate is skipped.
func (p Preset) Apply(src image.Image) *image.NRGBA {
	dst := imaging.Clone(src)

	if p.Sepia > 0 {
		dst = imaging.AdjustFunc(dst, sepia(utils.Clamp(p.Sepia, 0, 1)))
	}
	if p.Saturation != 0 {
		dst = imaging.AdjustSaturation(dst, p.Saturation)
	}
	if p.Contrast != 1 {
		dst = imaging.AdjustContrast(dst, contrastPercentage(p.Contrast))
	}
	if p.Brightness != 1 {
		dst = imaging.AdjustFunc(dst, brightness(utils.Max(p.Brightness, 0)))
	}
	if p.Lift != 0 {
		dst = imaging.AdjustBrightness(dst, p.Lift)
	}
	if p.Blur > 0 {
		dst = imaging.Blur(dst, p.Blur)
	}
	if p.Tint.A > 0 {
		dst = tint(dst, p.Tint, p.TintMode)
	}
	return dst
}

// sepia returns the color matrix transformation defined by the CSS sepia() filter function.
func sepia(amount float64) func(color.NRGBA) color.NRGBA {
	a := 1 - amount

	return func(c color.NRGBA) color.NRGBA {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)

		return color.NRGBA{
			R: clampChannel((0.393+0.607*a)*r + (0.769-0.769*a)*g + (0.189-0.189*a)*b),
			G: clampChannel((0.349-0.349*a)*r + (0.686+0.314*a)*g + (0.168-0.168*a)*b),
			B: clampChannel((0.272-0.272*a)*r + (0.534-0.534*a)*g + (0.131+0.869*a)*b),
			A: c.A,
		}
	}
}

// brightness multiplies the color channels with the provided factor, like the CSS brightness() function.
func brightness(factor float64) func(color.NRGBA) color.NRGBA {
	return func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clampChannel(float64(c.R) * factor),
			G: clampChannel(float64(c.G) * factor),
			B: clampChannel(float64(c.B) * factor),
			A: c.A,
		}
	}
}

// contrastPercentage converts a linear contrast factor (the slope around the mid gray)
// into the percentage expected by imaging.AdjustContrast.
// Factors above 1 are mapped on the 1/(2-v) curve used by imaging for contrast increase.
func contrastPercentage(factor float64) float64 {
	factor = utils.Max(factor, 0)
	if factor <= 1 {
		return (factor - 1) * 100
	}
	return 100 - 100/factor
}

// tint blends a flat color layer over the image with the provided blend mode.
func tint(src *image.NRGBA, col color.NRGBA, mode string) *image.NRGBA {
	layer := imaging.New(src.Bounds().Dx(), src.Bounds().Dy(), col)

	blend := imop.NewBlend()
	if err := blend.Set(tintMode(mode)); err != nil {
		return src
	}

	op := imop.InitOp()
	// Keep the alpha of the photo, the tint only shows where there is something to tone.
	op.Set(imop.SrcAtop)

	return op.Draw(nil, layer, src, blend).Img
}

// tintMode defaults an empty blend mode to normal.
func tintMode(mode string) string {
	if mode == "" {
		return imop.Normal
	}
	return mode
}

func clampChannel(v float64) uint8 {
	return uint8(utils.Clamp(v, 0, 255) + 0.5)
}

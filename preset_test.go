package retrolens

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreset_Lookup(t *testing.T) {
	assert := assert.New(t)

	p, err := LookupPreset("historical")
	assert.NoError(err)
	assert.Equal(Historical, p)

	_, err = LookupPreset("daguerreotype")
	assert.True(errors.Is(err, ErrUnknownPreset))

	assert.Equal([]string{"none", "historical", "kodachrome", "tri-x", "faded"}, PresetNames())
}

func TestPreset_HistoricalLook(t *testing.T) {
	src := imaging.New(2, 2, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	dst := Historical.Apply(src)

	// sepia(0.4) -> contrast(1.1) -> brightness(0.9) of a mid gray.
	c := dst.NRGBAAt(0, 0)
	assert.InDelta(t, 133, int(c.R), 1)
	assert.InDelta(t, 125, int(c.G), 1)
	assert.InDelta(t, 113, int(c.B), 1)
	assert.Equal(t, uint8(255), c.A)

	// The warm tone is kept.
	assert.True(t, c.R > c.G && c.G > c.B)

	// The source is left untouched.
	assert.Equal(t, color.NRGBA{R: 128, G: 128, B: 128, A: 255}, src.NRGBAAt(0, 0))
}

func TestPreset_NoneIsIdentity(t *testing.T) {
	src := gradient(16, 8)
	dst := None.Apply(src)

	assert.Equal(t, src.Pix, dst.Pix)
	assert.NotSame(t, src, dst)
}

func TestPreset_Sepia(t *testing.T) {
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	full := sepia(1)(white)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 239, A: 255}, full)

	assert.Equal(t, white, sepia(0)(white))
}

func TestPreset_ContrastPercentage(t *testing.T) {
	assert.InDelta(t, 0, contrastPercentage(1), 1e-9)
	assert.InDelta(t, -50, contrastPercentage(0.5), 1e-9)
	assert.InDelta(t, 100-100/1.1, contrastPercentage(1.1), 1e-9)
	assert.InDelta(t, -100, contrastPercentage(-3), 1e-9)
}

func TestPreset_Monochrome(t *testing.T) {
	dst := TriX.Apply(gradient(16, 8))

	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			c := dst.NRGBAAt(x, y)
			require.Equal(t, c.R, c.G)
			require.Equal(t, c.G, c.B)
		}
	}
}

func TestPreset_Tinted(t *testing.T) {
	src := gradient(16, 8)

	for _, p := range []Preset{Kodachrome, Faded} {
		t.Run(p.Name, func(t *testing.T) {
			dst := p.Apply(src)

			assert.Equal(t, src.Bounds(), dst.Bounds())
			assert.NotEqual(t, src.Pix, dst.Pix)
			assert.Equal(t, uint8(255), dst.NRGBAAt(3, 3).A)
		})
	}
}

func TestPreset_TintKeepsTransparency(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	dst := tint(src, color.NRGBA{R: 255, A: 128}, "")

	assert.Equal(t, color.NRGBA{}, dst.NRGBAAt(1, 1))
}

func TestPreset_Validate(t *testing.T) {
	for _, name := range PresetNames() {
		p, err := LookupPreset(name)
		require.NoError(t, err)
		assert.NoError(t, p.Validate(), name)
	}

	typo := Kodachrome
	typo.TintMode = "sofft_light"
	err := typo.Validate()
	assert.True(t, errors.Is(err, ErrInvalidPreset))

	// The tint of an invalid preset is skipped instead of blended in the wrong mode.
	src := gradient(8, 8)
	noTint := typo
	noTint.Tint = color.NRGBA{}
	assert.Equal(t, noTint.Apply(src).Pix, typo.Apply(src).Pix)

	untinted := None
	untinted.TintMode = "whatever"
	assert.NoError(t, untinted.Validate())

	normal := None
	normal.Tint = color.NRGBA{R: 255, A: 128}
	assert.NoError(t, normal.Validate())
}

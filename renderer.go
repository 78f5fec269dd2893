package retrolens

import (
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/retrolens/retrolens/utils"
)

// Canvas dimensions before and after a photo is loaded.
const (
	BlankWidth   = 800
	BlankHeight  = 400
	CanvasWidth  = 600
	CanvasHeight = 600
)

// resampleFilter is used to stretch the photo over the whole canvas.
var resampleFilter = imaging.Linear

// Options configures a Renderer. The zero value is ready to use.
type Options struct {
	// Width and Height define the canvas size once a photo is loaded. They are
	// applied by Session.Load, a bare Renderer keeps its blank canvas until Resize.
	Width  int
	Height int
	// Preset is applied on the filtered region. Defaults to Historical.
	Preset *Preset
	// GrainCount is the number of grain specks. Defaults to DefaultGrainCount.
	GrainCount int
	// Seed initializes the grain random source. Zero means a time based seed.
	Seed int64
}

// Renderer draws the split view of a photo into a fixed size canvas.
// It is not safe for concurrent use: all the calls are expected
// to be serialized by the caller, e.g. by the UI event loop.
type Renderer struct {
	canvas *image.NRGBA
	preset Preset
	grain  *grain

	// The scaled photo and its filtered version are kept between the renders,
	// dragging the divider only changes the clip regions.
	cache struct {
		src      *image.NRGBA
		preset   Preset
		plain    *image.NRGBA
		filtered *image.NRGBA
	}
}

// NewRenderer creates a renderer with a blank canvas.
func NewRenderer(opts Options) *Renderer {
	preset := Historical
	if opts.Preset != nil {
		preset = *opts.Preset
	}
	count := opts.GrainCount
	if count <= 0 {
		count = DefaultGrainCount
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Renderer{
		canvas: image.NewNRGBA(image.Rect(0, 0, BlankWidth, BlankHeight)),
		preset: preset,
		grain:  newGrain(count, seed),
	}
}

// Canvas returns the render target.
func (r *Renderer) Canvas() *image.NRGBA {
	return r.canvas
}

// Preset returns the preset applied on the filtered region.
func (r *Renderer) Preset() Preset {
	return r.preset
}

// SetPreset changes the preset applied on the filtered region.
func (r *Renderer) SetPreset(p Preset) {
	r.preset = p
}

// Resize replaces the canvas with a blank one of the provided size.
// Non positive dimensions are ignored.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if b := r.canvas.Bounds(); b.Dx() == width && b.Dy() == height {
		return
	}
	r.canvas = image.NewNRGBA(image.Rect(0, 0, width, height))
	r.Invalidate()
}

// Invalidate drops the cached renditions of the photo. It must be called
// when the pixels of an already rendered image have been modified in place.
func (r *Renderer) Invalidate() {
	r.cache.src = nil
	r.cache.plain = nil
	r.cache.filtered = nil
}

// Render overwrites the canvas with the split view of img. The left side of the divider
// shows the photo unfiltered, the right side shows it through the preset.
// The split position and the grain intensity are clamped to the [0, 1] range.
// A nil image leaves the canvas untouched.
func (r *Renderer) Render(img *image.NRGBA, split, grainIntensity float64) {
	if img == nil {
		return
	}
	split = utils.Clamp(split, 0, 1)
	grainIntensity = utils.Clamp(grainIntensity, 0, 1)

	plain, filtered := r.prepare(img)
	bounds := r.canvas.Bounds()

	clearImage(r.canvas)

	left, right := splitRegions(bounds, split)
	copyRegion(r.canvas, plain, left)
	copyRegion(r.canvas, filtered, right)

	// TODO: scale the speck count or opacity with the intensity once the expected look is settled.
	if grainIntensity > 0 {
		r.grain.draw(r.canvas)
	}
}

// prepare returns the photo stretched over the canvas, together with its filtered version.
func (r *Renderer) prepare(img *image.NRGBA) (plain, filtered *image.NRGBA) {
	b := r.canvas.Bounds()

	if r.cache.src != img || r.cache.plain == nil || r.cache.plain.Bounds() != b {
		r.cache.src = img
		r.cache.plain = imaging.Resize(img, b.Dx(), b.Dy(), resampleFilter)
		r.cache.filtered = nil
	}
	if r.cache.filtered == nil || r.cache.preset != r.preset {
		r.cache.preset = r.preset
		r.cache.filtered = r.preset.Apply(r.cache.plain)
	}
	return r.cache.plain, r.cache.filtered
}

// splitRegions divides the bounds at the split position in two adjacent
// rectangles which together cover the full width, without overlapping.
func splitRegions(bounds image.Rectangle, split float64) (left, right image.Rectangle) {
	x := bounds.Min.X + int(float64(bounds.Dx())*utils.Clamp(split, 0, 1)+0.5)

	left = image.Rect(bounds.Min.X, bounds.Min.Y, x, bounds.Max.Y)
	right = image.Rect(x, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)

	return left, right
}

// clearImage makes every pixel of the image transparent black.
func clearImage(img *image.NRGBA) {
	for i := range img.Pix {
		img.Pix[i] = 0
	}
}

// copyRegion copies the pixels of src within the rectangle into dst.
// Both images are expected to share the same bounds. An empty rectangle is a no-op.
func copyRegion(dst, src *image.NRGBA, r image.Rectangle) {
	r = r.Intersect(dst.Bounds()).Intersect(src.Bounds())
	if r.Empty() {
		return
	}
	size := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		di := dst.PixOffset(r.Min.X, y)
		si := src.PixOffset(r.Min.X, y)
		copy(dst.Pix[di:di+size], src.Pix[si:si+size])
	}
}

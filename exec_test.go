package retrolens

import (
	"errors"
	"image"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/retrolens/retrolens/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, png.Encode(f, img))
}

func writeGIF(t *testing.T, path string, img image.Image) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, gif.Encode(f, img, nil))
}

// listFiles returns the regular files found under dir, relative to it.
func listFiles(t *testing.T, dir string) []string {
	t.Helper()

	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			files = append(files, rel)
		}
		return nil
	})
	require.NoError(t, err)

	return files
}

func newTestProcessor() *Processor {
	spinner := utils.NewSpinner("", time.Millisecond, false)
	spinner.SetWriter(io.Discard)

	return &Processor{
		Split:      0.5,
		GrainLevel: 10,
		Width:      testWidth,
		Height:     testHeight,
		Seed:       1,
		Spinner:    spinner,
	}
}

func TestExec_SingleFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.png")
	dst := filepath.Join(dir, "out.png")
	writePNG(t, src, gradient(20, 10))

	err := newTestProcessor().Execute(&Ops{Src: src, Dst: dst, PipeName: "-"})
	require.NoError(t, err)

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, testWidth, testHeight), img.Bounds())
}

func TestExec_Directory(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "developed")

	require.NoError(t, os.Mkdir(filepath.Join(src, "nested"), 0755))
	writePNG(t, filepath.Join(src, "a.png"), gradient(20, 10))
	writePNG(t, filepath.Join(src, "nested", "b.png"), gradient(10, 20))
	require.NoError(t, os.WriteFile(filepath.Join(src, "notes.txt"), []byte("skip me"), 0644))

	p := newTestProcessor()
	p.Preview = true

	err := p.Execute(&Ops{Src: src, Dst: dst, PipeName: "-", Workers: 2})
	require.NoError(t, err)

	// The preview is never shown for directories, the caller options are left untouched.
	assert.True(t, p.Preview)

	assert.ElementsMatch(t, []string{"a.png", filepath.Join("nested", "b.png")}, listFiles(t, dst))
}

func TestExec_DirectoryKeepsDistinctOutputs(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	require.NoError(t, os.Mkdir(filepath.Join(src, "2019"), 0755))
	writePNG(t, filepath.Join(src, "a.png"), gradient(20, 10))
	writePNG(t, filepath.Join(src, "2019", "a.png"), gradient(10, 20))
	writePNG(t, filepath.Join(src, "b.png"), gradient(12, 12))
	writeGIF(t, filepath.Join(src, "b.gif"), gradient(12, 12))

	err := newTestProcessor().Execute(&Ops{Src: src, Dst: dst, PipeName: "-", Workers: 4})
	require.NoError(t, err)

	files := listFiles(t, dst)
	assert.ElementsMatch(t, []string{
		"a.png",
		filepath.Join("2019", "a.png"),
		"b.png",
		"b.gif.png",
	}, files)

	for _, name := range files {
		f, err := os.Open(filepath.Join(dst, name))
		require.NoError(t, err)

		img, err := png.Decode(f)
		f.Close()
		require.NoError(t, err, name)
		assert.Equal(t, image.Rect(0, 0, testWidth, testHeight), img.Bounds(), name)
	}
}

func TestExec_UnsupportedDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.png")
	writePNG(t, src, gradient(8, 8))

	err := newTestProcessor().Execute(&Ops{Src: src, Dst: filepath.Join(dir, "out.tiff"), PipeName: "-"})
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.NoFileExists(t, filepath.Join(dir, "out.tiff"))
}

func TestExec_MissingSource(t *testing.T) {
	err := newTestProcessor().Execute(&Ops{Src: filepath.Join(t.TempDir(), "nope.jpg"), Dst: "out.jpg", PipeName: "-"})
	assert.Error(t, err)
}

func TestExec_FailedRenderRemovesOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.jpg")
	dst := filepath.Join(dir, "out.jpg")
	require.NoError(t, os.WriteFile(src, []byte("not a jpeg"), 0644))

	err := newTestProcessor().Execute(&Ops{Src: src, Dst: dst, PipeName: "-"})
	assert.Error(t, err)
	assert.NoFileExists(t, dst)
}

func TestExec_OutputName(t *testing.T) {
	assert.Equal(t, "a.jpg", outputName("a.jpg"))
	assert.Equal(t, "b.JPEG", outputName("b.JPEG"))
	assert.Equal(t, filepath.Join("dir", "c.gif.png"), outputName(filepath.Join("dir", "c.gif")))

	dst, err := outputPath(filepath.Join("in"), filepath.Join("out"), filepath.Join("in", "2019", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "2019", "a.png"), dst)
}

func TestExec_IsValidExtension(t *testing.T) {
	assert.True(t, isValidExtension(".PNG", SupportedExtensions))
	assert.True(t, isValidExtension(".gif", SupportedExtensions))
	assert.False(t, isValidExtension(".gif", outputExtensions))
	assert.False(t, isValidExtension("", outputExtensions))
}

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"

	"gioui.org/app"
	"github.com/retrolens/retrolens"
	"github.com/retrolens/retrolens/utils"
)

const HelpBanner = `
┬─┐┌─┐┌┬┐┬─┐┌─┐┬  ┌─┐┌┐┌┌─┐
├┬┘├┤  │ ├┬┘│ ││  ├┤ │││└─┐
┴└─└─┘ ┴ ┴└─└─┘┴─┘└─┘┘└┘└─┘

Then and now: split view photo filter.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.String("in", pipeName, "Source image, directory or URL")
	destination = flag.String("out", pipeName, "Destination image or directory")
	split       = flag.Float64("split", retrolens.DefaultSplit, "Divider position between 0 (all filtered) and 1 (all unfiltered)")
	grain       = flag.Int("grain", 0, "Grain level between 0 and 100")
	preset      = flag.String("preset", retrolens.DefaultPreset, "Film preset: "+strings.Join(retrolens.PresetNames(), ", "))
	newWidth    = flag.Int("width", retrolens.CanvasWidth, "Canvas width")
	newHeight   = flag.Int("height", retrolens.CanvasHeight, "Canvas height")
	seed        = flag.Int64("seed", 0, "Grain random seed (0 means time based)")
	quality     = flag.Int("quality", retrolens.DefaultQuality, "JPEG quality")
	divider     = flag.String("divider", "#ffffff", "Divider color of the preview window")
	preview     = flag.Bool("preview", false, "Show the preview window, ESC exports the image")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if _, err := retrolens.LookupPreset(*preset); err != nil {
		flag.Usage()
		log.Fatalf("%s%s",
			utils.DecorateText(fmt.Sprintf("\n%v", err), utils.ErrorMessage),
			utils.DefaultColor,
		)
	}

	proc := &retrolens.Processor{
		Split:        *split,
		GrainLevel:   *grain,
		Preset:       *preset,
		Width:        *newWidth,
		Height:       *newHeight,
		Quality:      *quality,
		Seed:         *seed,
		DividerColor: *divider,
		Preview:      *preview,
	}

	op := &retrolens.Ops{
		Src:      *source,
		Dst:      *destination,
		PipeName: pipeName,
		Workers:  *workers,
	}

	if !*preview {
		if err := proc.Execute(op); err != nil {
			fail(err)
		}
		return
	}

	// The Gio event loop needs the main OS thread, the execution runs aside.
	go func() {
		if err := proc.Execute(op); err != nil {
			fail(err)
		}
		os.Exit(0)
	}()
	app.Main()
}

func fail(err error) {
	log.Fatalf("%s%s",
		utils.DecorateText(fmt.Sprintf("\nError: %v", err), utils.ErrorMessage),
		utils.DefaultColor,
	)
}

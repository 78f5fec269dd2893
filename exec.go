package retrolens

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/retrolens/retrolens/utils"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// outputExtensions lists the formats the canvas can be exported to.
var outputExtensions = []string{".jpg", ".jpeg", ".png", ".bmp"}

// Ops describes the source and the destination of an execution.
// Src and Dst can be image files, directories or the pipe name.
// Src can also be an image URL.
type Ops struct {
	Src, Dst, PipeName string
	Workers            int
}

// result holds the relevant information about the rendering process of one image.
type result struct {
	path string
	err  error
}

// Execute renders the source image, or every image found in the source directory,
// into the destination. In case the preview mode is activated it must be invoked
// from a separate goroutine in order to not block the main OS thread.
func (p *Processor) Execute(op *Ops) error {
	if p.Spinner == nil {
		msg := fmt.Sprintf("%s %s",
			utils.DecorateText("⚡ RETROLENS", utils.StatusMessage),
			utils.DecorateText("⇢ developing the photo...", utils.DefaultMessage),
		)
		p.Spinner = utils.NewSpinner(msg, time.Millisecond*80, true)
	}

	src := op.Src
	if utils.IsValidUrl(op.Src) {
		f, err := utils.DownloadImage(op.Src)
		if f != nil {
			defer os.Remove(f.Name())
			defer f.Close()
		}
		if err != nil {
			return fmt.Errorf("failed to load the source image: %w", err)
		}
		src = f.Name()
	}

	var (
		fi  os.FileInfo
		err error
	)
	// Check if the source is a pipe name or a regular file.
	if src == op.PipeName {
		fi, err = os.Stdin.Stat()
	} else {
		fi, err = os.Stat(src)
	}
	if err != nil {
		return fmt.Errorf("failed to load the source image: %w", err)
	}

	stop := p.restoreCursorOnInterrupt()
	defer stop()

	now := time.Now()

	switch mode := fi.Mode(); {
	case mode.IsDir():
		err = op.processDir(p, src)
	case mode.IsRegular() || mode&os.ModeNamedPipe != 0:
		ext := filepath.Ext(op.Dst)
		if op.Dst != op.PipeName && !isValidExtension(ext, outputExtensions) {
			return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
		}
		err = op.process(p, src, op.Dst)
		op.printOpStatus(op.Dst, err)
	default:
		return fmt.Errorf("%s is neither a file nor a directory", src)
	}

	if err == nil {
		fmt.Fprintf(os.Stderr, "\nExecution time: %s\n",
			utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage),
		)
	}
	return err
}

// processDir renders recursively the images found in the src directory concurrently.
// The preview is never shown in this mode. The first error encountered is returned.
func (op *Ops) processDir(p *Processor, src string) error {
	if _, err := os.Stat(op.Dst); err != nil {
		if err := os.MkdirAll(op.Dst, 0755); err != nil {
			return fmt.Errorf("unable to create the destination directory: %w", err)
		}
	}

	proc := *p
	proc.Preview = false

	workers := op.Workers
	// Limit the concurrently running workers to maxWorkers.
	if workers <= 0 || workers > maxWorkers {
		workers = utils.Min(runtime.NumCPU(), maxWorkers)
	}

	ch := make(chan result)
	done := make(chan interface{})
	defer close(done)

	paths, errc := walkDir(done, src, SupportedExtensions)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			op.consumer(&proc, src, op.Dst, ch, done, paths)
		}()
	}

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	var err error
	for res := range ch {
		if res.err != nil && err == nil {
			err = res.err
		}
		op.printOpStatus(res.path, res.err)
	}
	if werr := <-errc; werr != nil && err == nil {
		err = werr
	}
	return err
}

// consumer reads the path names from the paths channel and renders each source image.
// The directory structure of the source tree is mirrored in the destination.
func (op *Ops) consumer(
	p *Processor,
	root, dest string,
	res chan<- result,
	done <-chan interface{},
	paths <-chan string,
) {
	for src := range paths {
		dst, err := outputPath(root, dest, src)
		if err == nil {
			err = os.MkdirAll(filepath.Dir(dst), 0755)
		}
		if err == nil {
			err = op.process(p, src, dst)
		}

		select {
		case <-done:
			return
		case res <- result{
			path: dst,
			err:  err,
		}:
		}
	}
}

// outputPath returns the destination of a source image found under the root directory,
// keeping its path relative to the root.
func outputPath(root, dest, src string) (string, error) {
	rel, err := filepath.Rel(root, src)
	if err != nil {
		return "", fmt.Errorf("unable to resolve the destination of %s: %w", src, err)
	}
	return filepath.Join(dest, outputName(rel)), nil
}

// outputName returns the destination file name of a source image.
// Sources in a format the canvas can't be exported to get an additional
// .png extension, so b.gif and b.png never share a destination.
func outputName(src string) string {
	if isValidExtension(filepath.Ext(src), outputExtensions) {
		return src
	}
	return src + ".png"
}

// process calls the processor over the source image and returns the error in case exists.
func (op *Ops) process(p *Processor, in, out string) error {
	successMsg := fmt.Sprintf("%s %s %s",
		utils.DecorateText("⚡ RETROLENS", utils.StatusMessage),
		utils.DecorateText("⇢", utils.DefaultMessage),
		utils.DecorateText("the photo has been developed ✔", utils.SuccessMessage),
	)
	errorMsg := fmt.Sprintf("%s %s %s",
		utils.DecorateText("⚡ RETROLENS", utils.StatusMessage),
		utils.DecorateText("developing the photo failed...", utils.DefaultMessage),
		utils.DecorateText("✘", utils.ErrorMessage),
	)

	// Start the progress indicator.
	p.Spinner.Start()

	src, dst, err := op.pathToFile(in, out)
	if err != nil {
		p.Spinner.StopWithMsg(errorMsg)
		return err
	}

	defer func() {
		if f, ok := src.(*os.File); ok && f != os.Stdin {
			if err := f.Close(); err != nil {
				log.Printf("could not close the opened file: %v", err)
			}
		}
	}()

	err = p.Process(src, dst)

	if f, ok := dst.(*os.File); ok && f != os.Stdout {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("could not close the destination file: %w", cerr)
		}
		if err != nil {
			// remove the partially written image file
			os.Remove(f.Name())
		}
	}

	if err != nil {
		p.Spinner.StopWithMsg(errorMsg)
		return err
	}
	p.Spinner.StopWithMsg(successMsg)

	return nil
}

// pathToFile converts the source and destination paths to readable and writable files.
func (op *Ops) pathToFile(in, out string) (io.Reader, io.Writer, error) {
	var (
		src *os.File
		dst *os.File
		err error
	)
	// Check if the source is a pipe name or a regular file.
	if in == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdin")
		}
		src = os.Stdin
	} else {
		src, err = os.Open(in)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open the source file: %w", err)
		}
	}

	// Check if the destination is a pipe name or a regular file.
	if out == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			src.Close()
			return nil, nil, errors.New("`-` should be used with a pipe for stdout")
		}
		dst = os.Stdout
	} else {
		dst, err = os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			src.Close()
			return nil, nil, fmt.Errorf("unable to create the destination file: %w", err)
		}
	}
	return src, dst, nil
}

// printOpStatus displays the relevant information about the rendering process.
func (op *Ops) printOpStatus(fname string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s%s",
			utils.DecorateText("\nError developing the photo: "+filepath.Base(fname), utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err), utils.DefaultMessage),
		)
		return
	}
	if fname != op.PipeName {
		fmt.Fprintf(os.Stderr, "\nThe photo has been saved as: %s %s\n\n",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
			utils.DefaultColor,
		)
	}
}

// restoreCursorOnInterrupt makes the cursor visible again when the execution is
// interrupted with CTRL-C. The returned function releases the signal handler.
func (p *Processor) restoreCursorOnInterrupt() func() {
	signalChan := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-signalChan:
			p.Spinner.RestoreCursor()
			os.Exit(1)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(signalChan)
		close(done)
	}
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each supported image file to a new channel.
// It finishes in case the done channel is getting closed.
func walkDir(
	done <-chan interface{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() {
				return nil
			}
			if !isValidExtension(filepath.Ext(f.Name()), srcExts) {
				return nil
			}

			select {
			case <-done:
				return errors.New("directory walk cancelled")
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}

// isValidExtension checks for the supported extensions, ignoring the case.
func isValidExtension(ext string, extensions []string) bool {
	return utils.Contains(extensions, strings.ToLower(ext))
}

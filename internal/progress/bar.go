package progress

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"

	"github.com/HenrikKarapetyan/filesystem/pkg/fsutil"
)

// Bar counts files copied by a directory copy or move
type Bar struct {
	mu           sync.Mutex
	bar          *progressbar.ProgressBar
	description  string
	total        int
	files        int
	bytes        int64
	showProgress bool
	writer       io.Writer
}

// New creates a bar on the ANSI stdout. A total below zero makes it a spinner.
// The showProgress parameter is typically terminal.StdoutIsTerminal() && !noProgress.
func New(total int, description string, showProgress bool) *Bar {
	var writer io.Writer = ansi.NewAnsiStdout()
	if !showProgress {
		writer = io.Discard
	}
	return NewWithWriter(writer, total, description, showProgress)
}

// NewWithWriter creates a bar writing to w
func NewWithWriter(w io.Writer, total int, description string, showProgress bool) *Bar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	return &Bar{
		bar:          bar,
		description:  description,
		total:        total,
		showProgress: showProgress,
		writer:       w,
	}
}

// Observe records one copied file. It has the signature of fsutil.Options.Progress.
func (b *Bar) Observe(ev fsutil.CopyEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.files++
	b.bytes += ev.Bytes
	b.bar.Describe(fmt.Sprintf("%s [cyan]%s[reset]", b.description, filepath.Base(ev.Source)))
	_ = b.bar.Add(1)
}

// Files returns the number of files observed
func (b *Bar) Files() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.files
}

// Bytes returns the number of bytes observed
func (b *Bar) Bytes() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bytes
}

// Finish completes the bar and prints a newline if progress is shown
func (b *Bar) Finish() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.bar.Describe(b.description)
	err := b.bar.Finish()
	if b.showProgress {
		fmt.Fprintln(b.writer)
	}
	return err
}

// CountFiles returns how many files CopyDirectory would copy from src with opts.
func CountFiles(fsys *fsutil.Filesystem, src string, opts fsutil.Options) (int, error) {
	files, err := fsys.Walk(src, fsutil.LeavesOnly, opts, func(_ string, e fsutil.Entry) (string, error) {
		return e.Path, nil
	})
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

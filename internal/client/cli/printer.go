package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophmedia/internal/client/uploads"
)

// printer renders transaction events. Callbacks arrive on one goroutine,
// the mutex only guards failures() readers.
type printer struct {
	out   io.Writer
	tty   bool
	width int

	mu     sync.Mutex
	failed int
	bar    bool
}

func newPrinter(out io.Writer, tty bool, width int) *printer {
	if width <= 0 {
		width = 80
	}
	return &printer{out: out, tty: tty, width: width}
}

func (p *printer) failures() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed
}

func (p *printer) handle(txID string, st uploads.UploadState) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch s := st.(type) {
	case uploads.TransactionStart:
		p.line("transaction %s: %d file(s)", txID, s.Total)
	case uploads.AssetStart:
		p.line("[%d/%d] %s", s.Index+1, s.Total, s.Intent.FileName)
	case uploads.AssetProgress:
		if p.tty {
			p.progress(s.Intent.FileName, s.Sent, s.Total)
		}
	case uploads.AssetUploadEnd:
		p.line("  transferred %s", s.Intent.FileName)
	case uploads.AssetCreated:
		p.line("  created %s -> %s", s.Intent.FileName, s.Asset.ReadURLs.Original)
	case uploads.AssetUploadError:
		p.failed++
		name := s.Intent.FileName
		if name == "" {
			name = s.Intent.Path
		}
		p.line("  failed %s: %v", name, s.Err)
	case uploads.TransactionEnd:
		p.line("transaction %s done: %d of %d uploaded", txID, len(s.Assets), s.Total)
	}
}

func (p *printer) line(format string, args ...any) {
	if p.bar {
		fmt.Fprint(p.out, "\n")
		p.bar = false
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) progress(name string, sent, total int64) {
	label := fmt.Sprintf("  %s ", name)
	pct := 0
	if total > 0 {
		pct = int(sent * 100 / total)
	}
	suffix := fmt.Sprintf(" %3d%%", pct)

	cells := p.width - len(label) - len(suffix) - 2
	if cells < 10 {
		cells = 10
	}
	done := cells * pct / 100

	fmt.Fprintf(p.out, "\r%s[%s%s]%s", label, strings.Repeat("#", done), strings.Repeat(".", cells-done), suffix)
	p.bar = true
}

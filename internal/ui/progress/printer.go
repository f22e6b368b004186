// Package progress renders per-task console output for the worker pool.
//
// Workers report concurrently, so every outcome is rendered into one string
// first and emitted with a single write under a mutex; partial lines from
// different tasks never interleave.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"go.trai.ch/shaderforge/internal/core/domain"
	"go.trai.ch/shaderforge/internal/core/ports"
	"go.trai.ch/shaderforge/internal/ui/style"
)

var _ ports.Reporter = (*Printer)(nil)

// Printer implements ports.Reporter on an io.Writer.
type Printer struct {
	mu       sync.Mutex
	out      io.Writer
	platform string

	ok   lipgloss.Style
	dim  lipgloss.Style
	warn lipgloss.Style
	fail lipgloss.Style
}

// New creates a Printer for the given writer. When colorize is false the
// output is plain ASCII regardless of terminal capabilities.
func New(w io.Writer, platform string, colorize bool) *Printer {
	profile := termenv.Ascii
	if colorize {
		profile = termenv.EnvColorProfile()
	}
	renderer := lipgloss.NewRenderer(w, termenv.WithProfile(profile), termenv.WithTTY(colorize))

	return &Printer{
		out:      w,
		platform: platform,
		ok:       renderer.NewStyle().Foreground(style.Green),
		dim:      renderer.NewStyle().Foreground(style.Gray),
		warn:     renderer.NewStyle().Foreground(style.Yellow),
		fail:     renderer.NewStyle().Foreground(style.Red),
	}
}

// TaskCompleted implements ports.Reporter.
func (p *Printer) TaskCompleted(task *domain.Task, done, total uint32, diagnostic string) {
	progress := 100 * float64(done) / float64(total)

	var b strings.Builder
	if diagnostic != "" {
		// A success with warnings keeps the compiler text attached.
		fmt.Fprintf(&b, "%s\n%s", p.warn.Render(fmt.Sprintf("[%5.1f%%] %s %s {%s} {%s}",
			progress, p.platform, task.Source, task.EntryPoint, task.CombinedDefines)),
			ensureNewline(diagnostic))
	} else {
		fmt.Fprintf(&b, "%s%s %s%s {%s}\n",
			p.ok.Render(fmt.Sprintf("[%5.1f%%]", progress)),
			p.dim.Render(" "+p.platform),
			task.Source,
			p.dim.Render(" {"+task.EntryPoint+"}"),
			task.CombinedDefines)
	}

	p.write(b.String())
}

// TaskFailed implements ports.Reporter.
func (p *Printer) TaskFailed(task *domain.Task, diagnostic string) {
	if diagnostic == "" {
		diagnostic = "<no message text>\n"
	}

	msg := p.fail.Render(fmt.Sprintf("[ FAIL ] %s %s {%s} {%s}",
		p.platform, task.Source, task.EntryPoint, task.CombinedDefines)) +
		"\n" + ensureNewline(diagnostic)

	p.write(msg)
}

// Infof implements ports.Reporter.
func (p *Printer) Infof(format string, args ...any) {
	p.write(fmt.Sprintf(format+"\n", args...))
}

func (p *Printer) write(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.out, s)
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

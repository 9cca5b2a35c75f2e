// Package report summarizes a fortigen run for the terminal.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/syssam/fortigen/compiler/gen"
	"github.com/syssam/fortigen/compiler/load"
	"github.com/syssam/fortigen/graph"
)

// ErrIncomplete is returned by Summary.Err when the run skipped, failed or
// found stale output.
var ErrIncomplete = errors.New("fortigen: run incomplete")

// Entry is a named item with the reason it was reported.
type Entry struct {
	Name   string
	Reason string
}

// Summary collects the outcome of one run.
type Summary struct {
	RunID   string
	Check   bool
	Elapsed time.Duration

	// Files and Loaded count the schema documents discovered and parsed.
	Files  int
	Loaded int

	Generated int
	Written   int
	Unchanged int
	Stale     []string

	Skipped    []Entry
	Failed     []Entry
	Unresolved []string

	Graph *graph.Stats
}

// New returns an empty Summary with a fresh run ID.
func New() *Summary {
	return &Summary{RunID: uuid.NewString()}
}

// AddCorpus records the loader outcome.
func (s *Summary) AddCorpus(c *load.Corpus) {
	s.Files = c.Files
	s.Loaded = len(c.Schemas)
	for _, sk := range c.Skipped {
		s.Skipped = append(s.Skipped, Entry{Name: sk.File, Reason: sk.Err.Error()})
	}
}

// AddGraph records graph statistics and unresolved datasources.
func (s *Summary) AddGraph(g *graph.Graph, topN int) {
	stats := g.Stats(topN)
	s.Graph = &stats
	for _, u := range g.Unresolved {
		s.Unresolved = append(s.Unresolved, u.Error())
	}
}

// AddResult records the generator outcome.
func (s *Summary) AddResult(r *gen.Result) {
	s.Generated = len(r.Generated)
	s.Written = len(r.Written)
	s.Unchanged = len(r.Unchanged)
	s.Stale = append(s.Stale, r.Stale...)
	for _, f := range r.Failed {
		s.Failed = append(s.Failed, Entry{Name: f.Endpoint, Reason: f.Err.Error()})
	}
	sort.Slice(s.Failed, func(i, j int) bool { return s.Failed[i].Name < s.Failed[j].Name })
}

// Ok reports whether every document loaded and every endpoint was generated
// and up to date.
func (s *Summary) Ok() bool {
	return len(s.Skipped) == 0 && len(s.Failed) == 0 && len(s.Stale) == 0
}

// Err returns nil for a clean run, and otherwise an error wrapping
// ErrIncomplete that lists what went wrong.
func (s *Summary) Err() error {
	if s.Ok() {
		return nil
	}
	var parts []string
	for _, e := range s.Skipped {
		parts = append(parts, "skipped "+e.Name+": "+e.Reason)
	}
	for _, e := range s.Failed {
		parts = append(parts, "failed "+e.Name+": "+e.Reason)
	}
	if n := len(s.Stale); n > 0 {
		parts = append(parts, fmt.Sprintf("%d stale file(s)", n))
	}
	return fmt.Errorf("%w: %s", ErrIncomplete, strings.Join(parts, "; "))
}

// IsTerminal reports whether w is a terminal, in which case output is styled.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

type styles struct {
	title, label, ok, warn, bad, dim lipgloss.Style
}

func newStyles(styled bool) styles {
	if !styled {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain}
	}
	return styles{
		title: lipgloss.NewStyle().Bold(true),
		label: lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		bad:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		dim:   lipgloss.NewStyle().Faint(true),
	}
}

// Render writes a human-readable summary to w.
func Render(w io.Writer, s *Summary, styled bool) error {
	st := newStyles(styled)
	var b strings.Builder
	line := func(label, format string, args ...any) {
		fmt.Fprintf(&b, "  %s %s\n", st.label.Render(fmt.Sprintf("%-10s", label)), fmt.Sprintf(format, args...))
	}

	b.WriteString(st.title.Render("fortigen run "+s.RunID) + "\n")
	line("loaded", "%d of %d schema files", s.Loaded, s.Files)
	if s.Check {
		line("checked", "%d endpoints (%d up to date, %d stale)", s.Generated, s.Unchanged, len(s.Stale))
	} else {
		line("generated", "%d endpoints (%d written, %d unchanged)", s.Generated, s.Written, s.Unchanged)
	}
	line("skipped", "%d", len(s.Skipped))
	line("failed", "%d", len(s.Failed))
	if g := s.Graph; g != nil {
		line("graph", "%d endpoints, %d edges, %d cycles, %d unresolved", g.Endpoints, g.Edges, g.Cycles, g.Unresolved)
	}
	if s.Elapsed > 0 {
		line("elapsed", "%s", s.Elapsed.Round(time.Millisecond))
	}

	section := func(title string, style lipgloss.Style, items []string) {
		if len(items) == 0 {
			return
		}
		b.WriteString("\n" + style.Render(title) + "\n")
		for _, it := range items {
			b.WriteString("  " + it + "\n")
		}
	}
	section("skipped", st.warn, entries(s.Skipped))
	section("failed", st.bad, entries(s.Failed))
	section("stale", st.warn, s.Stale)
	section("unresolved datasources", st.dim, s.Unresolved)

	b.WriteString("\n")
	if s.Ok() {
		b.WriteString(st.ok.Render("ok") + "\n")
	} else {
		b.WriteString(st.bad.Render("FAIL") + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func entries(list []Entry) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.Name+": "+e.Reason)
	}
	return out
}

package section

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/san-kum/lmpkit/internal/engine"
	"github.com/san-kum/lmpkit/internal/lmp"
)

// Format selects a text rendering.
type Format int

const (
	Plain Format = iota
	Annotated
	Markdown
)

func (f Format) String() string {
	switch f {
	case Annotated:
		return "annotated"
	case Markdown:
		return "markdown"
	default:
		return "plain"
	}
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "plain", "text":
		return Plain, nil
	case "annotated", "input":
		return Annotated, nil
	case "markdown", "md":
		return Markdown, nil
	default:
		return Plain, fmt.Errorf("unknown format: %s", s)
	}
}

const fence = "```"

// Render writes the section in format f. Every command rendered is frozen.
func (s *Section) Render(w io.Writer, f Format) error {
	bw := bufio.NewWriter(w)
	var err error
	switch f {
	case Markdown:
		err = s.renderMarkdown(bw)
	case Annotated:
		fmt.Fprintf(bw, "# %s\n", s.name)
		err = s.renderText(bw)
		bw.WriteString("\n")
	default:
		err = s.renderText(bw)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

// renderText writes one line per command or attribute, with a blank line
// wherever the entry kind changes.
func (s *Section) renderText(w *bufio.Writer) error {
	var prev Kind
	for _, e := range s.entries {
		if prev != 0 && e.Kind != prev {
			w.WriteString("\n")
		}
		prev = e.Kind
		for _, line := range e.lines() {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Section) renderMarkdown(w *bufio.Writer) error {
	fmt.Fprintf(w, "## %s\n\n", s.name)
	inAttrs := false
	for _, e := range s.entries {
		switch e.Kind {
		case Attribute:
			if !inAttrs {
				w.WriteString(fence + "\n")
				inAttrs = true
			}
			fmt.Fprintln(w, e.lines()[0])
		case Labeled:
			if inAttrs {
				w.WriteString(fence + "\n\n")
				inAttrs = false
			}
			fmt.Fprintf(w, "%s\n\n%s\n", e.Label, fence)
			for _, line := range e.lines() {
				fmt.Fprintln(w, line)
			}
			w.WriteString(fence + "\n\n")
		}
	}
	if inAttrs {
		w.WriteString(fence + "\n\n")
	}
	return nil
}

func (e Entry) lines() []string {
	if e.Kind == Attribute {
		return []string{e.Key + " " + lmp.Token(e.Value)}
	}
	out := make([]string, len(e.Commands))
	for i, c := range e.Commands {
		c.Freeze()
		out[i] = c.String()
	}
	return out
}

// Execute forwards every entry to eng in order. Include commands are
// replayed line by line from the referenced file.
func (s *Section) Execute(eng engine.Engine) error {
	if eng == nil {
		return engine.ErrUnavailable
	}
	for _, e := range s.entries {
		if e.Kind == Attribute {
			if err := eng.Command(e.lines()[0]); err != nil {
				return err
			}
			continue
		}
		for _, c := range e.Commands {
			if err := Run(eng, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// Run executes a single command against eng.
func Run(eng engine.Engine, c *lmp.Command) error {
	if eng == nil {
		return engine.ErrUnavailable
	}
	c.Freeze()
	if c.Keyword() == lmp.Include {
		toks := c.Tokens()
		if len(toks) == 0 {
			return fmt.Errorf("include without a file")
		}
		return Replay(eng, toks[0])
	}
	return eng.Command(c.String())
}

// Replay feeds every non-blank, non-comment line of path to eng.
func Replay(eng engine.Engine, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if err := eng.Command(line); err != nil {
			return err
		}
	}
	return sc.Err()
}

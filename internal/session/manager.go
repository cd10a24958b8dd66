package session

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/lmpkit/internal/engine"
	"github.com/san-kum/lmpkit/internal/lmp"
	"github.com/san-kum/lmpkit/internal/section"
)

const (
	DefaultHeader = "Lammps Simulation"
	AllGroup      = "all"
)

// Opener lazily establishes the engine the first time it is needed.
type Opener func(ctx context.Context) (engine.Engine, error)

type Options struct {
	Header string
	Logger *log.Logger
	Now    func() time.Time
	Engine engine.Engine
	Opener Opener
}

// Membership is one group of a GroupSpec; nil or empty Members declares an
// initially empty group.
type Membership struct {
	ID      string
	Members []any
}

// GroupSpec lists groups defined by the same membership method.
type GroupSpec struct {
	Method string
	Groups []Membership
}

type Manager struct {
	header   string
	logger   *log.Logger
	now      func() time.Time
	reg      *lmp.Registry
	universe *lmp.Universe
	groups   map[string]*lmp.Group
	order    []string
	sections []*section.Section
	byName   map[string]*section.Section
	eng      engine.Engine
	opener   Opener
}

func New(opts Options) *Manager {
	if opts.Header == "" {
		opts.Header = DefaultHeader
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	reg := lmp.NewRegistry()
	u := lmp.NewUniverse(reg)
	m := &Manager{
		header:   opts.Header,
		logger:   opts.Logger,
		now:      opts.Now,
		reg:      reg,
		universe: u,
		groups:   make(map[string]*lmp.Group),
		byName:   make(map[string]*section.Section),
		eng:      opts.Engine,
		opener:   opts.Opener,
	}
	m.addGroup(lmp.NewGroup(u, AllGroup, ""))
	return m
}

func (m *Manager) Header() string { return m.header }

func (m *Manager) Registry() *lmp.Registry { return m.reg }

func (m *Manager) Universe() *lmp.Universe { return m.universe }

func (m *Manager) All() *lmp.Group { return m.groups[AllGroup] }

func (m *Manager) Engine() engine.Engine { return m.eng }

func (m *Manager) SetEngine(e engine.Engine) { m.eng = e }

func (m *Manager) SetOpener(o Opener) { m.opener = o }

func (m *Manager) Sections() []*section.Section { return append([]*section.Section(nil), m.sections...) }

func (m *Manager) Group(id string) (*lmp.Group, bool) {
	g, ok := m.groups[id]
	return g, ok
}

// Groups returns every group in creation order, "all" first.
func (m *Manager) Groups() []*lmp.Group {
	out := make([]*lmp.Group, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.groups[id])
	}
	return out
}

// Definitions returns the group-defining commands in creation order.
func (m *Manager) Definitions() []lmp.Statement {
	out := make([]lmp.Statement, 0, len(m.order))
	for _, g := range m.Groups() {
		if d := g.Definition(); d != nil {
			out = append(out, d)
		}
	}
	return out
}

// CreateGroups builds one group per membership in declaration order. The whole
// request is checked first, so a collision leaves no group created.
func (m *Manager) CreateGroups(specs []GroupSpec) ([]*lmp.Group, error) {
	seen := make(map[string]bool)
	for _, spec := range specs {
		for _, mb := range spec.Groups {
			if _, ok := m.groups[mb.ID]; ok || seen[mb.ID] {
				return nil, lmp.Duplicate("group", mb.ID)
			}
			seen[mb.ID] = true
		}
	}

	created := make([]*lmp.Group, 0, len(seen))
	for _, spec := range specs {
		for _, mb := range spec.Groups {
			g := lmp.NewGroup(m.universe, mb.ID, spec.Method, mb.Members...)
			m.addGroup(g)
			created = append(created, g)
			m.logger.Debug("group created", "id", mb.ID, "method", spec.Method)
		}
	}
	return created, nil
}

func (m *Manager) addGroup(g *lmp.Group) {
	m.groups[g.ID()] = g
	m.order = append(m.order, g.ID())
}

func (m *Manager) AddSection(name string) (*section.Section, error) {
	if _, ok := m.byName[name]; ok {
		return nil, lmp.Duplicate("section", name)
	}
	s := section.New(name)
	m.sections = append(m.sections, s)
	m.byName[name] = s
	return s, nil
}

func (m *Manager) Section(name string) (*section.Section, bool) {
	s, ok := m.byName[name]
	return s, ok
}

// WriteTo renders the banner and every section to w.
func (m *Manager) WriteTo(w io.Writer, f section.Format) error {
	if f == section.Markdown {
		if _, err := fmt.Fprintf(w, "# %s\n\n", m.header); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(w, "# %s: %s\n\n", m.header, m.now().Format(time.ANSIC)); err != nil {
			return err
		}
	}
	var prev section.Kind
	for _, s := range m.sections {
		first, last := s.Bounds()
		// Plain sections carry no header, so the kind-change blank line
		// also applies where two sections meet.
		if f == section.Plain && prev != 0 && first != 0 && first != prev {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := s.Render(w, f); err != nil {
			return fmt.Errorf("section %s: %w", s.Name(), err)
		}
		if last != 0 {
			prev = last
		}
	}
	return nil
}

// OutputAll renders every section and writes the result to path in one
// step: a temporary file next to path is renamed over it.
func (m *Manager) OutputAll(f section.Format, path string) error {
	var buf bytes.Buffer
	if err := m.WriteTo(&buf, f); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { os.Remove(tmpPath) }

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}

	m.logger.Info("script written", "path", path, "format", f, "sections", len(m.sections))
	return nil
}

// Open establishes the engine through the opener if none is set yet.
func (m *Manager) Open(ctx context.Context) (engine.Engine, error) {
	if m.eng != nil {
		return m.eng, nil
	}
	if m.opener == nil {
		return nil, engine.ErrUnavailable
	}
	e, err := m.opener(ctx)
	if err != nil {
		return nil, err
	}
	m.eng = e
	return e, nil
}

// ExecuteAll sends every section to the engine in order, stopping at the
// first failure.
func (m *Manager) ExecuteAll(ctx context.Context) error {
	eng, err := m.Open(ctx)
	if err != nil {
		return err
	}
	for _, s := range m.sections {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		m.logger.Debug("executing section", "name", s.Name(), "entries", s.Len())
		if err := s.Execute(eng); err != nil {
			return fmt.Errorf("section %s: %w", s.Name(), err)
		}
	}
	return nil
}

// Execute sends one statement straight to the engine.
func (m *Manager) Execute(st lmp.Statement) error {
	if m.eng == nil {
		return engine.ErrUnavailable
	}
	return section.Run(m.eng, st.Cmd())
}

// Close releases the engine if one is open.
func (m *Manager) Close() error {
	if m.eng == nil {
		return nil
	}
	err := engine.Close(m.eng)
	m.eng = nil
	return err
}

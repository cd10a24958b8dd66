package engine

import (
	"context"
	"fmt"
	"io"
	"sort"
)

// Options carries what an engine factory may need.
type Options struct {
	CommandLine string
	Stdout      io.Writer
	Stderr      io.Writer
}

type Factory func(ctx context.Context, opts Options) (Engine, error)

type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}

	r.factories["recorder"] = func(ctx context.Context, opts Options) (Engine, error) {
		return NewRecorder(), nil
	}
	r.factories["process"] = func(ctx context.Context, opts Options) (Engine, error) {
		p, err := Start(ctx, opts.CommandLine, opts.Stdout, opts.Stderr)
		if err != nil {
			return nil, err
		}
		return p, nil
	}

	return r
}

func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

func (r *Registry) Open(ctx context.Context, name string, opts Options) (Engine, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown engine: %s", name)
	}
	return f(ctx, opts)
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

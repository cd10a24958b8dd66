package lmp

import (
	"fmt"
	"strconv"
	"strings"
)

// KeywordWidth is the column the keyword is padded to when rendered.
const KeywordWidth = 15

// Include is the file-inclusion keyword.
const Include = "include"

// Command is one engine command: a keyword, an optional owning scope and
// ordered argument tokens. Arguments may be attached until the command is
// first written or executed; after that it is frozen.
type Command struct {
	keyword string
	id      string
	scope   string
	args    []any
	frozen  bool
}

// NewCommand builds an unscoped command.
func NewCommand(keyword string, args ...any) *Command {
	return &Command{keyword: keyword, args: append([]any(nil), args...)}
}

// NewScopedCommand builds a command whose first argument is scope.
func NewScopedCommand(keyword, scope string, args ...any) *Command {
	c := NewCommand(keyword, args...)
	c.scope = scope
	return c
}

func (c *Command) Keyword() string { return c.keyword }

// ID is the engine identifier of the entity the command declares, empty for
// plain commands.
func (c *Command) ID() string { return c.id }

func (c *Command) Scope() string { return c.scope }

// Cmd returns c itself so variants embedding *Command satisfy Statement.
func (c *Command) Cmd() *Command { return c }

// Arg appends arguments. Once the command has been written or executed it
// is left unchanged and ErrFrozen is returned.
func (c *Command) Arg(args ...any) error {
	if c.frozen {
		return fmt.Errorf("%s: %w", c.keyword, ErrFrozen)
	}
	c.args = append(c.args, args...)
	return nil
}

func (c *Command) Args() []any {
	out := make([]any, len(c.args))
	copy(out, c.args)
	return out
}

// Freeze marks the command as emitted.
func (c *Command) Freeze() { c.frozen = true }

func (c *Command) Frozen() bool { return c.frozen }

// Tokens returns the rendered arguments: identifier, scope, then args.
func (c *Command) Tokens() []string {
	toks := make([]string, 0, len(c.args)+2)
	if c.id != "" {
		toks = append(toks, c.id)
	}
	if c.scope != "" {
		toks = append(toks, c.scope)
	}
	for _, a := range c.args {
		toks = append(toks, Token(a))
	}
	return toks
}

// String renders the command in engine syntax.
func (c *Command) String() string {
	return fmt.Sprintf("%-*s %s", KeywordWidth, c.keyword, strings.Join(c.Tokens(), " "))
}

// Token renders a single argument. Slices are flattened into space
// separated tokens.
func Token(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case Ref:
		return t.ID()
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case []string:
		return strings.Join(t, " ")
	case []int:
		parts := make([]string, len(t))
		for i, n := range t {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, " ")
	case []float64:
		parts := make([]string, len(t))
		for i, f := range t {
			parts[i] = Token(f)
		}
		return strings.Join(parts, " ")
	case []any:
		parts := make([]string, len(t))
		for i, a := range t {
			parts[i] = Token(a)
		}
		return strings.Join(parts, " ")
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// Statement is satisfied by Command and every variant embedding it.
type Statement interface {
	Cmd() *Command
}

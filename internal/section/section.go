package section

import (
	"reflect"
	"strings"

	"github.com/san-kum/lmpkit/internal/lmp"
)

// labelCutset lists the characters stripped from a label to form its key.
const labelCutset = " \t\r\n.,:;!?'\"()[]{}<>/\\#*-"

// Kind distinguishes the two entry shapes a Section holds.
type Kind int

const (
	Attribute Kind = iota + 1
	Labeled
)

// Entry is either an attribute (Key, Value) or a labeled run of commands.
type Entry struct {
	Kind     Kind
	Key      string
	Value    any
	Label    string
	Commands []*lmp.Command
}

// Section is a named, ordered bundle of attributes and labeled command
// groups. Keys are unique across both entry kinds.
type Section struct {
	name    string
	entries []Entry
	index   map[string]int
}

func New(name string) *Section {
	return &Section{name: name, index: make(map[string]int)}
}

func (s *Section) Name() string { return s.name }

// Entries returns the entries in insertion order.
func (s *Section) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Section) Len() int { return len(s.entries) }

// Bounds returns the kinds of the first and last entries, zero when the
// section is empty.
func (s *Section) Bounds() (first, last Kind) {
	if len(s.entries) == 0 {
		return 0, 0
	}
	return s.entries[0].Kind, s.entries[len(s.entries)-1].Kind
}

// Get returns the entry stored under key.
func (s *Section) Get(key string) (Entry, bool) {
	i, ok := s.index[key]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Set stores a literal setting rendered as `{key} {value}`.
func (s *Section) Set(key string, value any) error {
	if _, ok := s.index[key]; ok {
		return lmp.Duplicate("section key", key)
	}
	s.push(Entry{Kind: Attribute, Key: key, Value: value})
	return nil
}

// Apply stores the non-nil statements as one group under the sanitized
// label. Nothing is recorded when every statement is nil.
func (s *Section) Apply(label string, stmts ...lmp.Statement) error {
	key := Sanitize(label)
	if _, ok := s.index[key]; ok {
		return lmp.Duplicate("section key", key)
	}
	cmds := make([]*lmp.Command, 0, len(stmts))
	for _, st := range stmts {
		if isNil(st) {
			continue
		}
		cmds = append(cmds, st.Cmd())
	}
	if len(cmds) == 0 {
		return nil
	}
	s.push(Entry{Kind: Labeled, Key: key, Label: label, Commands: cmds})
	return nil
}

// Commands returns every command of the section in order.
func (s *Section) Commands() []*lmp.Command {
	out := make([]*lmp.Command, 0)
	for _, e := range s.entries {
		out = append(out, e.Commands...)
	}
	return out
}

func (s *Section) push(e Entry) {
	s.index[e.Key] = len(s.entries)
	s.entries = append(s.entries, e)
}

// Sanitize turns a label into a storage key.
func Sanitize(label string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(labelCutset, r) {
			return -1
		}
		return r
	}, label)
}

// If returns st when cond holds and nil otherwise, for optional commands
// passed to Apply.
func If(cond bool, st lmp.Statement) lmp.Statement {
	if !cond {
		return nil
	}
	return st
}

func isNil(st lmp.Statement) bool {
	if st == nil {
		return true
	}
	v := reflect.ValueOf(st)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

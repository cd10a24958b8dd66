// Package recipes holds reusable command compositions built on group and
// universe factories.
package recipes

import (
	"fmt"

	"github.com/san-kum/lmpkit/internal/lmp"
)

type KineticRatioOptions struct {
	// Molecules is the number of molecules; zero skips the per-molecule ratio.
	Molecules    int
	AtomName     string
	MoleculeName string
}

// KineticRatio is the output of KineticVarianceRatio.
type KineticRatio struct {
	Commands []lmp.Statement
	// Atom and Molecule are the references of the ratio variables.
	// Molecule is empty when no molecules were requested.
	Atom     string
	Molecule string
}

// Refs returns the ratio references in the order they were produced.
func (k *KineticRatio) Refs() []string {
	if k.Molecule == "" {
		return []string{k.Atom}
	}
	return []string{k.Atom, k.Molecule}
}

// KineticVarianceRatio declares the computes and variables evaluating
// <K^2>/<K>^2 of the kinetic energy K over atoms of g and, when requested,
// over its molecules. For an equilibrium gas the ratio approaches 5/3.
func KineticVarianceRatio(g *lmp.Group, opts KineticRatioOptions) (*KineticRatio, error) {
	if opts.AtomName == "" {
		opts.AtomName = g.FullID("ratio_atom")
	}
	if opts.MoleculeName == "" {
		opts.MoleculeName = g.FullID("ratio_mol")
	}
	if opts.Molecules < 0 {
		return nil, fmt.Errorf("molecules must be non-negative, got %d", opts.Molecules)
	}

	b := &builder{u: g.Universe(), g: g}

	b.compute("K_atom", "ke/atom")
	b.compute("K2ave_atom", "reduce", "avesq", b.ref("K_atom"))
	b.compute("Kave_atom", "reduce", "ave", b.ref("K_atom"))
	b.variable(g.FullID("Kave2_atom"), "equal", b.ref("Kave_atom")+"*"+b.ref("Kave_atom"))
	atom := b.variable(opts.AtomName, "equal", b.ref("K2ave_atom")+"/"+b.ref(g.FullID("Kave2_atom")))

	out := &KineticRatio{}
	if opts.Molecules > 0 {
		chunk := b.compute("molchunk", "chunk/atom", "molecule")
		b.compute("K_mol", "temp/chunk", chunk, "kecom")
		kMol := b.ref("K_mol")

		sum := func(i int) string { return g.FullID(fmt.Sprintf("K_%d_mol", i)) }
		sumSq := func(i int) string { return g.FullID(fmt.Sprintf("K2_%d_mol", i)) }

		b.variable(sum(0), "equal", 0.0)
		b.variable(sumSq(0), "equal", 0.0)
		for i := 1; i <= opts.Molecules; i++ {
			b.variable(sum(i), "equal", fmt.Sprintf("%s+%s[%d][1]", b.ref(sum(i-1)), kMol, i))
			b.variable(sumSq(i), "equal", fmt.Sprintf("%s+%s[%d][1]*%s[%d][1]", b.ref(sumSq(i-1)), kMol, i, kMol, i))
		}

		inv := lmp.Token(1 / float64(opts.Molecules))
		kAveMol := g.FullID("Kave_mol")
		k2AveMol := g.FullID("K2ave_mol")
		kAve2Mol := g.FullID("Kave2_mol")
		b.variable(kAveMol, "equal", b.ref(sum(opts.Molecules))+"*"+inv)
		b.variable(k2AveMol, "equal", b.ref(sumSq(opts.Molecules))+"*"+inv)
		b.variable(kAve2Mol, "equal", b.ref(kAveMol)+"*"+b.ref(kAveMol))
		mol := b.variable(opts.MoleculeName, "equal", b.ref(k2AveMol)+"/"+b.ref(kAve2Mol))
		if mol != nil {
			out.Molecule = mol.Ref()
		}
	}

	if b.err != nil {
		return nil, b.err
	}
	out.Atom = atom.Ref()
	out.Commands = b.stmts
	return out, nil
}

// builder keeps the first error so the recipe reads as straight-line code.
type builder struct {
	u     *lmp.Universe
	g     *lmp.Group
	stmts []lmp.Statement
	err   error
}

func (b *builder) compute(name string, args ...any) *lmp.Compute {
	if b.err != nil {
		return nil
	}
	c, err := b.g.Compute(name, args...)
	if err != nil {
		b.err = err
		return nil
	}
	b.stmts = append(b.stmts, c)
	return c
}

func (b *builder) variable(id string, args ...any) *lmp.Variable {
	if b.err != nil {
		return nil
	}
	v, err := b.u.Variable(id, args...)
	if err != nil {
		b.err = err
		return nil
	}
	b.stmts = append(b.stmts, v)
	return v
}

// ref resolves a declared name through the registry. Computes are looked
// up by their short name within the group.
func (b *builder) ref(name string) string {
	if b.err != nil {
		return ""
	}
	if c, ok := b.g.LookupCompute(name); ok {
		name = c.ID()
	}
	s, err := b.u.Registry().Resolve(lmp.Name(name))
	if err != nil {
		b.err = err
		return ""
	}
	return s
}

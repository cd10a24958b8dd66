package session_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lmpkit/internal/engine"
	"github.com/san-kum/lmpkit/internal/lmp"
	"github.com/san-kum/lmpkit/internal/section"
	"github.com/san-kum/lmpkit/internal/session"
)

var fixedNow = func() time.Time { return time.Date(2017, 6, 7, 9, 30, 0, 0, time.UTC) }

func words(st lmp.Statement) string {
	return strings.Join(strings.Fields(st.Cmd().String()), " ")
}

var _ = Describe("Manager", func() {
	var m *session.Manager

	BeforeEach(func() {
		m = session.New(session.Options{Header: "shear", Now: fixedNow})
	})

	Describe("groups", func() {
		It("starts with the implicit all group and no definition", func() {
			all, ok := m.Group("all")
			Expect(ok).To(BeTrue())
			Expect(all.Definition()).To(BeNil())
			Expect(m.Groups()).To(HaveLen(1))
		})

		It("creates groups in declaration order", func() {
			groups, err := m.CreateGroups([]session.GroupSpec{
				{Method: "type", Groups: []session.Membership{
					{ID: "lBase", Members: []any{4}},
					{ID: "lSurf", Members: []any{[]int{14, 16}}},
					{ID: "probe"},
				}},
				{Method: "union", Groups: []session.Membership{
					{ID: "lSolid", Members: []any{[]string{"lBase", "lSurf"}}},
				}},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(groups).To(HaveLen(4))

			defs := m.Definitions()
			Expect(defs).To(HaveLen(4))
			Expect(words(defs[0])).To(Equal("group lBase type 4"))
			Expect(words(defs[1])).To(Equal("group lSurf type 14 16"))
			Expect(words(defs[2])).To(Equal("group probe type 0"))
			Expect(words(defs[3])).To(Equal("group lSolid union lBase lSurf"))

			ids := []string{}
			for _, g := range m.Groups() {
				ids = append(ids, g.ID())
			}
			Expect(ids).To(Equal([]string{"all", "lBase", "lSurf", "probe", "lSolid"}))
		})

		It("rejects a group colliding with all", func() {
			_, err := m.CreateGroups([]session.GroupSpec{
				{Method: "type", Groups: []session.Membership{{ID: "liq", Members: []any{1}}, {ID: "all", Members: []any{2}}}},
			})
			Expect(errors.Is(err, lmp.ErrDuplicateName)).To(BeTrue())
			_, ok := m.Group("liq")
			Expect(ok).To(BeFalse())
		})

		It("rejects duplicates across calls", func() {
			spec := []session.GroupSpec{{Method: "type", Groups: []session.Membership{{ID: "liq", Members: []any{1}}}}}
			_, err := m.CreateGroups(spec)
			Expect(err).NotTo(HaveOccurred())
			_, err = m.CreateGroups(spec)
			Expect(err).To(MatchError(lmp.ErrDuplicateName))
		})
	})

	Describe("sections", func() {
		It("rejects a reused section name", func() {
			_, err := m.AddSection("System")
			Expect(err).NotTo(HaveOccurred())
			_, err = m.AddSection("System")
			Expect(err).To(MatchError(lmp.ErrDuplicateName))
		})
	})

	Describe("OutputAll", func() {
		BeforeEach(func() {
			sys, err := m.AddSection("System")
			Expect(err).NotTo(HaveOccurred())
			Expect(sys.Set("units", "real")).To(Succeed())
			Expect(sys.Set("atom_style", "full")).To(Succeed())

			run, err := m.AddSection("Run")
			Expect(err).NotTo(HaveOccurred())
			Expect(run.Apply("Production run.", m.Universe().Command("run", 1000))).To(Succeed())
		})

		It("writes the banner and annotated sections", func() {
			path := filepath.Join(GinkgoT().TempDir(), "in.shear")
			Expect(m.OutputAll(section.Annotated, path)).To(Succeed())

			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(
				"# shear: Wed Jun  7 09:30:00 2017\n\n" +
					"# System\nunits real\natom_style full\n\n" +
					"# Run\nrun             1000\n\n"))
		})

		It("separates plain sections where the entry kind changes", func() {
			_, err := m.AddSection("Empty")
			Expect(err).NotTo(HaveOccurred())
			out, err := m.AddSection("Output")
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Set("thermo", 100)).To(Succeed())

			path := filepath.Join(GinkgoT().TempDir(), "in.shear")
			Expect(m.OutputAll(section.Plain, path)).To(Succeed())

			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(
				"# shear: Wed Jun  7 09:30:00 2017\n\n" +
					"units real\natom_style full\n\n" +
					"run             1000\n\n" +
					"thermo 100\n"))
		})

		It("writes markdown with a title", func() {
			path := filepath.Join(GinkgoT().TempDir(), "README.md")
			Expect(m.OutputAll(section.Markdown, path)).To(Succeed())

			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(HavePrefix("# shear\n\n## System\n\n```\nunits real\n"))
			Expect(string(data)).To(ContainSubstring("Production run.\n\n```\nrun             1000\n```\n"))
		})

		It("fails on an unwritable destination and leaves nothing behind", func() {
			path := filepath.Join(GinkgoT().TempDir(), "missing", "in.shear")
			err := m.OutputAll(section.Plain, path)
			Expect(err).To(HaveOccurred())
			_, statErr := os.Stat(path)
			Expect(os.IsNotExist(statErr)).To(BeTrue())
		})

		It("leaves an existing file intact when the write fails", func() {
			dir := GinkgoT().TempDir()
			path := filepath.Join(dir, "in.shear")
			Expect(os.WriteFile(path, []byte("old\n"), 0644)).To(Succeed())
			Expect(os.Chmod(dir, 0555)).To(Succeed())
			DeferCleanup(os.Chmod, dir, os.FileMode(0755))

			if os.Geteuid() == 0 {
				Skip("root ignores directory permissions")
			}
			Expect(m.OutputAll(section.Plain, path)).NotTo(Succeed())
			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("old\n"))
		})
	})

	Describe("execution", func() {
		It("fails without an engine or opener", func() {
			_, err := m.AddSection("System")
			Expect(err).NotTo(HaveOccurred())
			Expect(m.ExecuteAll(context.Background())).To(MatchError(engine.ErrUnavailable))
			Expect(m.Execute(m.Universe().Command("units", "lj"))).To(MatchError(engine.ErrUnavailable))
		})

		It("opens the engine lazily and runs sections in order", func() {
			rec := engine.NewRecorder()
			opened := 0
			m.SetOpener(func(ctx context.Context) (engine.Engine, error) {
				opened++
				return rec, nil
			})

			sys, _ := m.AddSection("System")
			Expect(sys.Set("units", "lj")).To(Succeed())
			run, _ := m.AddSection("Run")
			fix, err := m.All().Fix("ensemble", "nve")
			Expect(err).NotTo(HaveOccurred())
			Expect(run.Apply("integrate", fix, m.Universe().Command("run", 100), fix.Unfix())).To(Succeed())

			Expect(m.ExecuteAll(context.Background())).To(Succeed())
			Expect(m.ExecuteAll(context.Background())).To(Succeed())
			Expect(opened).To(Equal(1))

			h := rec.History()
			Expect(h).To(HaveLen(8))
			Expect(h[0]).To(Equal("units lj"))
			Expect(strings.Fields(h[1])).To(Equal([]string{"fix", "ensemble_all", "all", "nve"}))
			Expect(strings.Fields(h[3])).To(Equal([]string{"unfix", "ensemble_all"}))
		})

		It("stops at the first engine failure", func() {
			boom := errors.New("engine refused")
			m.SetEngine(refusing{err: boom})
			first, _ := m.AddSection("First")
			Expect(first.Set("units", "lj")).To(Succeed())
			Expect(m.ExecuteAll(context.Background())).To(MatchError(boom))
		})

		It("runs a single statement directly", func() {
			rec := engine.NewRecorder()
			m.SetEngine(rec)
			Expect(m.Execute(m.Universe().Command("units", "lj"))).To(Succeed())
			Expect(rec.History()).To(Equal([]string{"units           lj"}))
			Expect(m.Close()).To(Succeed())
			Expect(m.Engine()).To(BeNil())
		})
	})
})

type refusing struct{ err error }

func (r refusing) Command(string) error { return r.err }

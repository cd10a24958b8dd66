// Package session owns everything one engine script is built from.
//
// A [Manager] holds the identifier registry, the universe scope, the
// implicit "all" group plus any groups created from a [GroupSpec] list,
// and the sections in creation order. It writes all sections as one text
// file or executes them against an engine:
//
//	m := session.New(session.Options{Header: "shear"})
//	sys, _ := m.AddSection("System")
//	sys.Set("units", "real")
//	err := m.OutputAll(section.Annotated, "in.shear")
//
// Output files are written to a temporary file in the destination
// directory and renamed into place, so a failed write never leaves a
// partial script behind.
package session

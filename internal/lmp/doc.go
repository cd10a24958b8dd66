// Package lmp builds commands for an external molecular-dynamics engine.
//
// The package defines the naming primitives that let later commands refer
// to earlier ones without re-deriving the engine's conventions:
//
//   - [Registry]: logical name to reference prefix (`v_` or `c_`)
//   - [Command]: keyword plus ordered argument tokens, rendered as one line
//   - [Universe]: the unscoped factory for commands, regions, molecules and variables
//   - [Group]: a named atom subset that mints fixes, computes and dumps
//
// # Example
//
//	reg := lmp.NewRegistry()
//	u := lmp.NewUniverse(reg)
//	all := lmp.NewGroup(u, "all", "")
//	ke, _ := all.Compute("ke", "ke/atom")
//	temp, _ := u.Variable("temp", "atom", ke.Ref()+"*335.5")
//	fmt.Println(temp)
//
// # Identifiers
//
// Entities minted by a Group are namespaced as `{name}_{group}`; a fix
// named "heat" on group "liq" is "heat_liq" and its cancel command
// `unfix heat_liq` is available from [Fix.Unfix] as soon as the fix exists.
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent mutation. A session is
// driven by one caller.
package lmp

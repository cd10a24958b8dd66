package config

import "sort"

// Presets are named engine setups selectable with --preset.
var Presets = map[string]EngineConfig{
	"dryrun": {
		Name: "recorder", Mode: "dryrun", Archive: true,
	},
	"smoke": {
		Name: "process", Mode: "runzero", Command: "lmp -log none", Archive: true,
	},
	"single-step": {
		Name: "process", Mode: "runone", Command: "lmp -log none", Archive: true,
	},
	"serial": {
		Name: "process", Mode: "nopipe", Command: "lmp", Archive: true,
	},
	"mpi": {
		Name: "process", Mode: "nopipe", Command: "mpirun -np ${LMPKIT_NP:-4} lmp", Archive: true,
	},
}

func GetPreset(name string) *EngineConfig {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

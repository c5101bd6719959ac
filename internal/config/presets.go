package config

import "sort"

// Presets are named binaries: idealised test systems and a few observed
// circumbinary hosts.
var Presets = map[string]*Config{
	"equal-mass": {
		Name: "equal-mass", StarMode: "ptype",
		Binary: BinaryConfig{Ecc: 0.0, Semi: 1.0, M1: 1.0, M2: 1.0},
	},
	"eccentric": {
		Name: "eccentric", StarMode: "ptype",
		Binary: BinaryConfig{Ecc: 0.5, Semi: 1.0, M1: 1.0, M2: 0.5},
	},
	"inclined": {
		Name: "inclined", StarMode: "ptype",
		Binary: BinaryConfig{Ecc: 0.3, Semi: 0.5, Inc: 30.0, Node: 45.0, ArgPeri: 60.0, MeanAnom: 90.0, M1: 1.0, M2: 0.8},
	},
	"stype": {
		Name: "stype", StarMode: "stype",
		Binary: BinaryConfig{Ecc: 0.0, Semi: 50.0, M1: 1.0, M2: 0.33},
	},
	"kepler16": {
		Name: "kepler16", StarMode: "ptype",
		Binary: BinaryConfig{Ecc: 0.15944, Semi: 0.22431, Inc: 89.6599, ArgPeri: 263.464, M1: 0.6897, M2: 0.20255},
	},
	"kepler34": {
		Name: "kepler34", StarMode: "ptype",
		Binary: BinaryConfig{Ecc: 0.52087, Semi: 0.22882, Inc: 89.8584, ArgPeri: 71.4199, M1: 1.0479, M2: 1.0208},
	},
}

// GetPreset returns a copy of the named preset layered over the defaults,
// or nil when no such preset exists.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Name = p.Name
	cfg.StarMode = p.StarMode
	cfg.Binary = p.Binary
	return cfg
}

// PresetNames lists the presets in alphabetical order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package config

import "sort"

type Preset struct {
	Description string
	Pose        PoseConfig
}

// Presets are target poses in degrees, hip yaw first. Negative hip pitch
// swings the leg forward.
var Presets = map[string]Preset{
	"canonical": {
		Description: "all joints at zero",
	},
	"crouch": {
		Description: "both knees bent, feet flat",
		Pose: PoseConfig{
			Right: [6]float64{0, 0, -30, 60, -30, 0},
			Left:  [6]float64{0, 0, -30, 60, -30, 0},
		},
	},
	"lean-left": {
		Description: "hips and ankles rolled to shift the torso left",
		Pose: PoseConfig{
			Right: [6]float64{0, -10, 0, 0, 0, 10},
			Left:  [6]float64{0, -10, 0, 0, 0, 10},
		},
	},
	"lean-right": {
		Description: "hips and ankles rolled to shift the torso right",
		Pose: PoseConfig{
			Right: [6]float64{0, 10, 0, 0, 0, -10},
			Left:  [6]float64{0, 10, 0, 0, 0, -10},
		},
	},
	"kick": {
		Description: "right leg swung forward",
		Pose: PoseConfig{
			Right: [6]float64{0, 0, -45, 20, -10, 0},
		},
	},
}

// GetPreset returns the default configuration with the named pose, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Pose = p.Pose
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Package config loads machine configuration from JSON and maps it onto
// core motor configs. Pin numbers are platform GPIO indices; the target
// build wires them to real pins and step generators.
package config

import (
	"encoding/json"

	"stepmotion/core"
)

// MotorConfig describes one motor axis.
type MotorConfig struct {
	DirPin      uint32 // GPIO for direction
	EnablePin   uint32 // GPIO for driver enable (active low)
	LimStartPin uint32 // Limit switch at axis start
	LimEndPin   uint32 // Limit switch at axis end

	VelMax      float32 // Maximum velocity (m/s)
	AccMax      float32 // Maximum acceleration (m/s^2)
	Kv          float32 // Step frequency per velocity unit (Hz per m/s)
	VelUpdateHz uint16  // Velocity update rate (Hz)
}

// MachineConfig is the complete machine configuration.
type MachineConfig struct {
	Motors map[string]MotorConfig // "x", "lift", etc.
}

// Load parses a JSON configuration and fills in defaults for omitted
// tuning values. Pin assignments carry no defaults: a motor with no pins
// configured is a configuration error the target wiring will surface.
func Load(jsonData []byte) (*MachineConfig, error) {
	var cfg MachineConfig

	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// applyDefaults fills in missing tuning values with sensible defaults
func applyDefaults(cfg *MachineConfig) {
	for name, m := range cfg.Motors {
		if m.VelMax == 0 {
			m.VelMax = 1.0
		}
		if m.AccMax == 0 {
			m.AccMax = 2.0
		}
		if m.Kv == 0 {
			m.Kv = 1000.0
		}
		if m.VelUpdateHz == 0 {
			m.VelUpdateHz = 100
		}
		cfg.Motors[name] = m
	}
}

// Default returns a single-axis configuration matching the reference
// wiring of the RP2040 target.
func Default() *MachineConfig {
	return &MachineConfig{
		Motors: map[string]MotorConfig{
			"x": {
				DirPin:      2,
				EnablePin:   3,
				LimStartPin: 4,
				LimEndPin:   5,
				VelMax:      1.0,
				AccMax:      2.0,
				Kv:          1000.0,
				VelUpdateHz: 100,
			},
		},
	}
}

// Core maps a motor entry onto a core.MotorConfig around the given step
// generator.
func (m MotorConfig) Core(gen core.StepGenerator) core.MotorConfig {
	return core.MotorConfig{
		DirPin:      core.GPIOPin(m.DirPin),
		EnablePin:   core.GPIOPin(m.EnablePin),
		LimStartPin: core.GPIOPin(m.LimStartPin),
		LimEndPin:   core.GPIOPin(m.LimEndPin),
		StepGen:     gen,
		Params: core.Params{
			VelMax:             m.VelMax,
			AccMax:             m.AccMax,
			Kv:                 m.Kv,
			VelUpdateFrequency: m.VelUpdateHz,
		},
	}
}

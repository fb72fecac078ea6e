package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/planetsim/internal/sim"
)

type BodyState struct {
	Position [3]float64 `json:"position"`
	Velocity [3]float64 `json:"velocity"`
}

type ExportSample struct {
	Time       float64   `json:"time"`
	Step       int       `json:"step"`
	Attractor  BodyState `json:"attractor"`
	Orbiter    BodyState `json:"orbiter"`
	Separation float64   `json:"separation"`
}

type ExportData struct {
	Run     RunMetadata    `json:"run"`
	Samples []ExportSample `json:"samples"`
}

// ExportJSON writes meta and every sample of result as indented JSON.
func ExportJSON(w io.Writer, meta RunMetadata, result *sim.Result) error {
	data := ExportData{
		Run:     meta,
		Samples: make([]ExportSample, len(result.Samples)),
	}
	data.Run.Steps = result.StepsTaken
	data.Run.Samples = len(result.Samples)
	data.Run.EnergyDrift = result.EnergyDrift
	data.Run.Metrics = result.Metrics

	for i := range result.Samples {
		s := &result.Samples[i]
		data.Samples[i] = ExportSample{
			Time: s.Time,
			Step: s.Step,
			Attractor: BodyState{
				Position: s.Attractor.Position(),
				Velocity: s.Attractor.Velocity(),
			},
			Orbiter: BodyState{
				Position: s.Orbiter.Position(),
				Velocity: s.Orbiter.Velocity(),
			},
			Separation: s.Separation(),
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Records converts in-memory samples to the stored row form.
func Records(result *sim.Result) []Record {
	out := make([]Record, len(result.Samples))
	for i := range result.Samples {
		s := &result.Samples[i]
		out[i] = Record{
			Time:         s.Time,
			Step:         s.Step,
			AttractorPos: s.Attractor.Position(),
			AttractorVel: s.Attractor.Velocity(),
			OrbiterPos:   s.Orbiter.Position(),
			OrbiterVel:   s.Orbiter.Velocity(),
		}
	}
	return out
}

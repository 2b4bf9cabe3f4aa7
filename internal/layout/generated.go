package layout

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-shotfile/internal/dtype"
	"github.com/robert-malhotra/go-shotfile/internal/param"
)

// PPGClock holds the pulse generator clock periods in seconds, indexed by
// the RESFACT parameter.
var PPGClock = [4]float64{1e-6, 1e-5, 1e-4, 1e-3}

// PPGPhases is the number of programmable phases.
const PPGPhases = 16

// ErrNoTimes is returned when a time axis cannot be reconstructed.
var ErrNoTimes = errors.New("time axis cannot be reconstructed")

// Generated is a time axis computed at read time.
type Generated struct {
	format dtype.Format
	times  []float64
}

func (g *Generated) Shape() []int {
	return []int{len(g.times)}
}

// Read returns the selected samples. IEEE_FLOAT axes come back as
// []float32, all others as []float64.
func (g *Generated) Read(w Window) (*Array, error) {
	w, err := w.Normalize(len(g.times))
	if err != nil {
		return nil, err
	}
	sel := g.times[w.Begin:w.End]

	a := &Array{Format: g.format, Shape: []int{len(sel)}}
	if g.format == dtype.Float {
		out := make([]float32, len(sel))
		for i, t := range sel {
			out[i] = float32(t)
		}
		a.Values = out
	} else {
		a.Format = dtype.Double
		a.Values = append([]float64(nil), sel...)
	}
	return a, nil
}

// NewADCTimes builds the axis of an internally clocked ADC:
// (i - nPre) / sRate for i in [0, nSteps). The result is single precision.
func NewADCTimes(nSteps, nPre int, sRate int32) (*Generated, error) {
	if sRate == 0 {
		return nil, fmt.Errorf("%w: zero sampling rate", ErrNoTimes)
	}
	if nSteps < 0 {
		return nil, fmt.Errorf("%w: negative n_steps %d", ErrNoTimes, nSteps)
	}
	times := make([]float64, nSteps)
	for i := range times {
		times[i] = float64(float32(i-nPre) / float32(sRate))
	}
	return &Generated{format: dtype.Float, times: times}, nil
}

// PPG is the timing configuration of a programmable pulse generator.
type PPG struct {
	PreTrig int64
	Resolut [PPGPhases]int64
	ResFact [PPGPhases]int64
	Pulses  [PPGPhases]int64
}

// PPGFromParams extracts the configuration from a Device's parameters.
// It reports false when the set has no PRETRIG parameter.
func PPGFromParams(s *param.Set) (*PPG, bool, error) {
	pre, ok := s.Get("PRETRIG")
	if !ok {
		return nil, false, nil
	}

	ppg := &PPG{}
	vals, err := pre.Int64s()
	if err != nil || len(vals) == 0 {
		return nil, true, fmt.Errorf("PRETRIG: %w", errOrEmpty(err))
	}
	ppg.PreTrig = vals[0]

	for _, f := range []struct {
		name string
		dst  *[PPGPhases]int64
	}{
		{"RESOLUT", &ppg.Resolut},
		{"RESFACT", &ppg.ResFact},
		{"PULSES", &ppg.Pulses},
	} {
		p, ok := s.Get(f.name)
		if !ok {
			return nil, true, fmt.Errorf("%w: missing %s", ErrNoTimes, f.name)
		}
		vals, err := p.Int64s()
		if err != nil {
			return nil, true, fmt.Errorf("%s: %w", f.name, err)
		}
		if len(vals) < PPGPhases {
			return nil, true, fmt.Errorf("%w: %s has %d values, need %d", ErrNoTimes, f.name, len(vals), PPGPhases)
		}
		copy(f.dst[:], vals)
	}
	return ppg, true, nil
}

func errOrEmpty(err error) error {
	if err != nil {
		return err
	}
	return errors.New("no values")
}

func (p *PPG) clock(phase int) (float64, error) {
	rf := p.ResFact[phase]
	if rf < 0 || rf >= int64(len(PPGClock)) {
		return 0, fmt.Errorf("%w: RESFACT[%d] = %d", ErrNoTimes, phase, rf)
	}
	return float64(p.Resolut[phase]) * PPGClock[rf], nil
}

// Times reconstructs the time axis. Pre-trigger samples are spaced by the
// last phase's period plus one microsecond and end just before zero; each
// phase with pulses then continues from the previous sample. The result
// is truncated to nSteps. ErrNoTimes is returned when no samples result.
func (p *PPG) Times(nPre, nSteps int) ([]float64, error) {
	var times []float64
	start := 0.0

	if nPre > 0 {
		dt := 0.0
		if p.PreTrig > 0 {
			period, err := p.clock(PPGPhases - 1)
			if err != nil {
				return nil, err
			}
			dt = period + 1e-6
		}
		for i := 0; i < nPre; i++ {
			times = append(times, dt*float64(i)-dt*float64(nPre))
		}
		start = times[len(times)-1] + dt
	}

	for phase := 0; phase < PPGPhases; phase++ {
		pulses := p.Pulses[phase]
		if pulses <= 0 {
			continue
		}
		dt, err := p.clock(phase)
		if err != nil {
			return nil, err
		}
		for i := int64(0); i < pulses; i++ {
			times = append(times, dt*float64(i)+start)
		}
		start = times[len(times)-1] + dt
	}

	if len(times) == 0 {
		return nil, fmt.Errorf("%w: no pulses programmed", ErrNoTimes)
	}
	if nSteps >= 0 && len(times) > nSteps {
		times = times[:nSteps]
	}
	return times, nil
}

// NewPPGTimes builds the axis of a PPG-clocked timebase. The values take
// the precision of format f.
func NewPPGTimes(p *PPG, f dtype.Format, nPre, nSteps int) (*Generated, error) {
	times, err := p.Times(nPre, nSteps)
	if err != nil {
		return nil, err
	}
	return &Generated{format: f, times: times}, nil
}

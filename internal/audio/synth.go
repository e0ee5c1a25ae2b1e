package audio

import (
	"math"
	"sync"
)

const (
	SampleRate = 44100
	BufferSize = 1024

	clickFreq  = 880.0
	clickDecay = 0.03 // seconds
	maxClick   = 1.5
)

// pad voicing, G2 Bb2 D3 F3 A3
var padFreqs = []float64{98.00, 116.54, 146.83, 174.61, 220.00}

// Synth renders a soft pad whose filter opens with the kinetic energy of
// the spheres, plus a short decaying ping for every contact. Update may be
// called from any goroutine; Process runs on the audio callback.
type Synth struct {
	mu       sync.Mutex
	energy   float64
	contacts int

	time         float64
	energySmooth float64
	filter       [2]float64
	delay        [2][]float64
	head         int
	click        float64
}

func NewSynth() *Synth {
	delayLen := int(float64(SampleRate) * 0.6)
	return &Synth{
		delay: [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
	}
}

// Update feeds the latest simulation state. Contacts accumulate until the
// next buffer voices them.
func (s *Synth) Update(energy float64, contacts int) {
	s.mu.Lock()
	s.energy = energy
	s.contacts += contacts
	s.mu.Unlock()
}

func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// lpf is a one pole low pass filter.
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

// Process fills a stereo, non-interleaved buffer. Samples stay in [-1, 1].
func (s *Synth) Process(out [][]float32) {
	s.mu.Lock()
	target := s.energy
	contacts := s.contacts
	s.contacts = 0
	s.mu.Unlock()

	if contacts > 0 {
		s.click = min(maxClick, s.click+0.5*float64(contacts))
	}

	dt := 1.0 / float64(SampleRate)
	decay := math.Exp(-dt / clickDecay)
	const vol = 0.25

	for i := range out[0] {
		s.energySmooth = s.energySmooth*0.995 + target*0.005
		cutoff := 300.0 + math.Min(s.energySmooth*20, 900.0)

		var sampleL, sampleR float64
		for j, f := range padFreqs {
			g := 1.0 / float64(len(padFreqs))
			lfo := math.Sin(s.time*0.2 + float64(j))
			sampleL += triangle(s.time*f*0.999) * g * (0.7 + 0.3*lfo)
			sampleR += triangle(s.time*f*1.001) * g * (0.7 + 0.3*lfo)
		}

		s.filter[0] = lpf(sampleL, cutoff, dt, s.filter[0])
		s.filter[1] = lpf(sampleR, cutoff, dt, s.filter[1])

		ping := s.click * math.Sin(2*math.Pi*clickFreq*s.time)
		s.click *= decay
		if s.click < 1e-4 {
			s.click = 0
		}

		delayL := s.delay[0][s.head]
		delayR := s.delay[1][s.head]
		mixL := s.filter[0] + ping + delayL*0.3 + delayR*0.1
		mixR := s.filter[1] + ping + delayR*0.3 + delayL*0.1
		s.delay[0][s.head] = mixL * 0.7
		s.delay[1][s.head] = mixR * 0.7
		s.head = (s.head + 1) % len(s.delay[0])

		out[0][i] = float32(math.Tanh(mixL * vol))
		if len(out) > 1 {
			out[1][i] = float32(math.Tanh(mixR * vol))
		}

		s.time += dt
	}
}

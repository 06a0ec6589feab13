package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Spectrum is the one-sided amplitude spectrum of a uniformly sampled
// series. Freqs is in cycles per second; the zero-frequency term is
// dropped.
type Spectrum struct {
	Freqs []float64
	Amps  []float64
}

// PowerSpectrum transforms a series sampled at rate samples per second.
// Fewer than two samples or a non-positive rate yield an empty spectrum.
func PowerSpectrum(values []float64, rate float64) *Spectrum {
	n := len(values)
	if n < 2 || rate <= 0 {
		return &Spectrum{}
	}
	fft := fourier.NewFFT(n)
	coeff := fft.Coefficients(nil, values)

	s := &Spectrum{
		Freqs: make([]float64, 0, len(coeff)-1),
		Amps:  make([]float64, 0, len(coeff)-1),
	}
	for i, c := range coeff {
		hz := fft.Freq(i) * rate
		if hz == 0 {
			continue
		}
		s.Freqs = append(s.Freqs, hz)
		s.Amps = append(s.Amps, cmplx.Abs(c)*2/float64(n))
	}
	return s
}

// Dominant returns the frequency carrying the largest amplitude. An empty
// spectrum reports (0, 0).
func (s *Spectrum) Dominant() (freq, amp float64) {
	for i, a := range s.Amps {
		if a > amp {
			freq, amp = s.Freqs[i], a
		}
	}
	return freq, amp
}

package speech

import "math"

const (
	frameLength = 2048
	hopLength   = 512

	minTempoBPM = 60
	maxTempoBPM = 200
)

// clipFeatures are the prosodic measurements the heuristic rules consume.
type clipFeatures struct {
	Energy float64 // mean frame RMS, 0..1
	ZCR    float64 // zero crossings per sample
	Tempo  float64 // beats per minute, 0 when no pulse is found
}

func extractFeatures(samples []float64, sampleRate int) clipFeatures {
	return clipFeatures{
		Energy: rmsEnergy(samples),
		ZCR:    zeroCrossingRate(samples),
		Tempo:  estimateTempo(samples, sampleRate),
	}
}

// rmsEnergy averages per-frame RMS over sliding frames. Clips shorter than
// one frame fall back to a single RMS over everything.
func rmsEnergy(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	if len(samples) < frameLength {
		return frameRMS(samples)
	}

	var sum float64
	var frames int
	for start := 0; start+frameLength <= len(samples); start += hopLength {
		sum += frameRMS(samples[start : start+frameLength])
		frames++
	}
	return sum / float64(frames)
}

func frameRMS(frame []float64) float64 {
	var sumSquares float64
	for _, s := range frame {
		sumSquares += s * s
	}
	return math.Sqrt(sumSquares / float64(len(frame)))
}

func zeroCrossingRate(samples []float64) float64 {
	if len(samples) < 2 {
		return 0
	}
	crossings := 0
	for i := 1; i < len(samples); i++ {
		if (samples[i-1] >= 0) != (samples[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(samples)-1)
}

// estimateTempo builds a short-hop energy envelope, takes positive energy
// jumps as onsets, and autocorrelates them over the 60-200 BPM lag range.
// The winning lag gives the tempo; a flat clip reports 0.
func estimateTempo(samples []float64, sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}

	var envelope []float64
	for start := 0; start+hopLength <= len(samples); start += hopLength {
		envelope = append(envelope, frameRMS(samples[start:start+hopLength]))
	}
	if len(envelope) < 4 {
		return 0
	}

	onsets := make([]float64, len(envelope)-1)
	for i := 1; i < len(envelope); i++ {
		if jump := envelope[i] - envelope[i-1]; jump > 0 {
			onsets[i-1] = jump
		}
	}

	envelopeRate := float64(sampleRate) / hopLength
	minLag := int(60 * envelopeRate / maxTempoBPM)
	maxLag := int(60 * envelopeRate / minTempoBPM)
	if minLag < 1 {
		minLag = 1
	}
	if maxLag > len(onsets)-1 {
		maxLag = len(onsets) - 1
	}
	if maxLag < minLag {
		return 0
	}

	bestLag := 0
	var bestScore float64
	for lag := minLag; lag <= maxLag; lag++ {
		var score float64
		for i := lag; i < len(onsets); i++ {
			score += onsets[i] * onsets[i-lag]
		}
		if score > bestScore {
			bestScore = score
			bestLag = lag
		}
	}
	if bestLag == 0 {
		return 0
	}
	return 60 * envelopeRate / float64(bestLag)
}

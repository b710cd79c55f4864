// Package voicepkg extracts voice feature vectors from audio and compares them.
package voicepkg

import (
	"errors"
	"math"
)

// Threshold is the minimal cosine similarity accepted as the same speaker.
const Threshold = 0.85

var (
	// ErrNotEnrolled indicates that there is no enrolled vector to compare against.
	ErrNotEnrolled = errors.New("no enrolled voice features")
	// ErrEmptyVector indicates an empty candidate vector.
	ErrEmptyVector = errors.New("empty feature vector")
	// ErrDimensionMismatch indicates vectors of different length.
	ErrDimensionMismatch = errors.New("feature vector dimension mismatch")
)

// FeatureVector is a fixed-length numeric summary of a voice sample.
type FeatureVector []float64

// Result is the outcome of a comparison.
type Result struct {
	IsMatch bool    `json:"is_match"`
	Score   float64 `json:"score"`
}

// Match compares the candidate against the enrolled vector.
//
// A zero vector on either side is a non-match with a zero score.
func Match(enrolled, candidate FeatureVector) (Result, error) {
	if len(enrolled) == 0 {
		return Result{}, ErrNotEnrolled
	}

	if len(candidate) == 0 {
		return Result{}, ErrEmptyVector
	}

	if len(enrolled) != len(candidate) {
		return Result{}, ErrDimensionMismatch
	}

	score, ok := CosineSimilarity(enrolled, candidate)
	if !ok {
		return Result{}, nil
	}

	return Result{IsMatch: score >= Threshold, Score: score}, nil
}

// CosineSimilarity returns dot(a,b)/(|a||b|) clamped to [-1, 1].
//
// ok is false when the similarity is undefined: a zero vector or non-finite input.
func CosineSimilarity(a, b FeatureVector) (score float64, ok bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}

	var dot, normA, normB float64

	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, false
	}

	score = dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, false
	}

	return math.Max(-1, math.Min(1, score)), true
}

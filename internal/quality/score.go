// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

// Package quality computes the ratings-derived quality projection for
// marketplace templates. The score is a pure function of the rating set:
// same ratings in, same score out — always recomputed from the set, never
// patched incrementally.
package quality

import (
	"math"

	"glowwwmarket/internal/models"
)

const (
	// WilsonZ is the z-value for a 95% confidence interval.
	WilsonZ = 1.96

	// MaxScore is the rating scale ceiling.
	MaxScore = 5

	// MinRatingsForAI and MinAvgForAI gate a template's eligibility for
	// automated reuse by the builder's AI suggestions.
	MinRatingsForAI = 10
	MinAvgForAI     = 3.5

	// MinRatingsForFeatured and MinAvgForFeatured gate the featured badge.
	MinRatingsForFeatured = 20
	MinAvgForFeatured     = 4.5
)

// Compute derives the quality projection from a rating count and raw mean
// (1-5 scale). With no ratings everything is zero and both flags are false.
func Compute(count int, average float64) models.QualityScore {
	if count <= 0 {
		return models.QualityScore{}
	}

	avg := round2(average)
	wilson := round2(wilsonLowerBound(count, average) * MaxScore)

	return models.QualityScore{
		Average:          avg,
		WilsonLowerBound: wilson,
		TotalRatings:     count,
		IsQualityForAI:   count >= MinRatingsForAI && avg >= MinAvgForAI,
		IsFeatured:       count >= MinRatingsForFeatured && avg >= MinAvgForFeatured,
	}
}

// wilsonLowerBound computes the Wilson score interval lower bound on a 0-1
// scale for a sample of n ratings with the given mean. It ranks templates
// conservatively while rating counts are low: a single 5-star rating scores
// below a hundred 4.8-star ratings.
func wilsonLowerBound(n int, average float64) float64 {
	p := average / MaxScore
	nf := float64(n)
	z := WilsonZ
	z2 := z * z

	numerator := p + z2/(2*nf) - z*math.Sqrt((p*(1-p)+z2/(4*nf))/nf)
	return numerator / (1 + z2/nf)
}

// round2 rounds to 2 decimal places.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

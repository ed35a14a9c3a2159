package results

import (
	"math"
	"sort"

	"translator/pkg/common"
)

// ScoreWeights are the importance weights of the three sub-scores in the
// fuzzy aggregation.
type ScoreWeights struct {
	Confidence float64
	Novelty    float64
	Clinical   float64
}

// DefaultScoreWeights weight clinical evidence and confidence equally and
// keep novelty as a weak signal.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{Confidence: 1.0, Novelty: 0.1, Clinical: 1.0}
}

// ScoreValue is the computed ranking score of one component set. Main is the
// Sugeno fuzzy integral of the three sub-scores; Secondary is their plain
// weighted mean, used as a tiebreak.
type ScoreValue struct {
	Main      float64 `json:"main"`
	Secondary float64 `json:"secondary"`
}

// Score selects the maximal score over the result's component sets: the set
// with the largest Sugeno integral wins, ties broken by the larger weighted
// mean. The function is pure and deterministic: identical inputs produce
// bit-identical output.
func Score(sets []common.ScoreComponents, weights ScoreWeights) ScoreValue {
	best := ScoreValue{}
	for i, set := range sets {
		candidate := scoreComponents(set, weights)
		if i == 0 || candidate.Main > best.Main ||
			(candidate.Main == best.Main && candidate.Secondary > best.Secondary) {
			best = candidate
		}
	}
	return best
}

func scoreComponents(set common.ScoreComponents, weights ScoreWeights) ScoreValue {
	values := []float64{
		normalizeScore(set.Confidence),
		normalizeScore(set.Novelty),
		normalizeScore(set.ClinicalEvidence),
	}
	w := []float64{weights.Confidence, weights.Novelty, weights.Clinical}

	return ScoreValue{
		Main:      sugenoIntegral(values, w),
		Secondary: weightedMean(values, w),
	}
}

// normalizeScore maps sub-scores reported on a [0,100] scale into [0,1].
func normalizeScore(v float64) float64 {
	if v > 1 {
		return v / 100
	}
	return v
}

// sugenoIntegral computes the Sugeno fuzzy integral of the values under a
// λ-fuzzy measure built from the importance weights: values are sorted
// descending and the integral is the max over min(value[i], μ(top i+1
// weights)), with μ(A∪B) = μ(A) + μ(B) + λ·μ(A)·μ(B) rounded to two
// decimals.
func sugenoIntegral(values, weights []float64) float64 {
	type pair struct{ value, weight float64 }
	pairs := make([]pair, len(values))
	for i := range values {
		pairs[i] = pair{values[i], weights[i]}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].value > pairs[j].value
	})

	lam := fuzzyLambda(weights)

	integral := 0.0
	measure := 0.0
	for i, p := range pairs {
		if i == 0 {
			measure = p.weight
		} else {
			measure = measure + p.weight + lam*measure*p.weight
		}
		measure = math.Round(measure*100) / 100
		if v := math.Min(p.value, measure); v > integral {
			integral = v
		}
	}
	return integral
}

// fuzzyLambda solves (a+b+c-1)λ² + (ab+ac+bc)λ + abc = 0 for the λ of the
// fuzzy measure, selecting the real root greater than -1 and not zero, and
// defaulting to 0 when none exists.
func fuzzyLambda(weights []float64) float64 {
	a, b, c := weights[0], weights[1], weights[2]

	qa := a + b + c - 1
	qb := a*b + a*c + b*c
	qc := a * b * c

	if math.Abs(qa) < 1e-12 {
		if qb == 0 {
			return 0
		}
		if root := -qc / qb; root > -1 && root != 0 {
			return root
		}
		return 0
	}

	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		return 0
	}
	sq := math.Sqrt(disc)
	for _, root := range []float64{(-qb + sq) / (2 * qa), (-qb - sq) / (2 * qa)} {
		if root > -1 && root != 0 {
			return root
		}
	}
	return 0
}

func weightedMean(values, weights []float64) float64 {
	var sum, total float64
	for i := range values {
		sum += values[i] * weights[i]
		total += weights[i]
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

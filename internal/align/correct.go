package align

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pipeops/ili-alignment/internal/model"
)

const pipeReplacementDeviationFraction = 0.2

// BuildZones sorts matched reference pairs by the earlier run's distance and
// builds one AlignmentZone per consecutive pair. A zone's correction factor
// is defined as 1 when the canonical-side span is non-positive, matching the
// guarded-division convention the rest of the engine's numeric code uses.
func BuildZones(runIndex int, pairs []model.MatchedReference, deviationFraction float64) []model.AlignmentZone {
	if len(pairs) < 2 {
		return nil
	}

	sorted := make([]model.MatchedReference, len(pairs))
	copy(sorted, pairs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].RefA.Distance < sorted[j].RefA.Distance })

	zones := make([]model.AlignmentZone, 0, len(sorted)-1)
	for i := 0; i < len(sorted)-1; i++ {
		p, next := sorted[i], sorted[i+1]

		startRaw, endRaw := p.RefB.Distance, next.RefB.Distance
		startCanon, endCanon := p.RefA.Distance, next.RefA.Distance

		factor := 1.0
		if canonSpan := endCanon - startCanon; canonSpan > 0 {
			factor = (endRaw - startRaw) / canonSpan
		}

		zones = append(zones, model.AlignmentZone{
			RunIndex:          runIndex,
			StartRaw:          startRaw,
			EndRaw:            endRaw,
			StartCanonical:    startCanon,
			EndCanonical:      endCanon,
			CorrectionFactor:  factor,
			IsPipeReplacement: absf(factor-1) > deviationFraction,
			StartJoint:        p.RefA.JointNumber,
			EndJoint:          next.RefA.JointNumber,
		})
	}

	return zones
}

// CorrectDistances remaps every anomaly's raw distance into the reference
// run's coordinate frame using the zones built from matched reference
// pairs. Anomalies before the first pair or after the last are translated
// by that pair's offset; with zero pairs, distances pass through unchanged.
// The corrected distance is written exactly once, per the Anomaly lifecycle
// invariant.
func CorrectDistances(anomalies []model.Anomaly, pairs []model.MatchedReference, zones []model.AlignmentZone) []model.Anomaly {
	out := make([]model.Anomaly, len(anomalies))
	copy(out, anomalies)

	if len(pairs) == 0 {
		return out
	}

	sortedPairs := make([]model.MatchedReference, len(pairs))
	copy(sortedPairs, pairs)
	sort.Slice(sortedPairs, func(i, j int) bool { return sortedPairs[i].RefA.Distance < sortedPairs[j].RefA.Distance })

	first, last := sortedPairs[0], sortedPairs[len(sortedPairs)-1]
	firstOffset := first.RefA.Distance - first.RefB.Distance
	lastOffset := last.RefA.Distance - last.RefB.Distance

	for i := range out {
		d := out[i].RawDistance
		out[i].CorrectedDistance = correctOne(d, zones, firstOffset, lastOffset, first.RefB.Distance, last.RefB.Distance)
		applyJointFraction(&out[i], zones)
	}

	return out
}

// applyJointFraction sets the optional "joint_fraction" diagnostic on a
// when its joint number matches a zone boundary and it carries a parseable
// relative-position value (the vendor "to u/s"/"dus" column). It mirrors
// the original tool's p_in_joint = dus_ft / joint_len_ft, clipped to
// [-0.5, 1.5]; joint_len_ft is approximated by the zone's canonical span
// since the aligned run carries no separate baseline joint-length table.
// It never overrides CorrectedDistance, which spec.md's zone-interpolation
// invariant already fixes exactly.
func applyJointFraction(a *model.Anomaly, zones []model.AlignmentZone) {
	if a.JointNumber == 0 {
		return
	}
	raw, ok := a.Extras["relative_position"].(string)
	if !ok {
		return
	}
	dus, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return
	}

	for _, z := range zones {
		var jointLen float64
		switch a.JointNumber {
		case z.StartJoint:
			jointLen = z.EndCanonical - z.StartCanonical
		case z.EndJoint:
			jointLen = z.EndCanonical - z.StartCanonical
		default:
			continue
		}
		if jointLen == 0 {
			continue
		}
		fraction := dus / jointLen
		if fraction < -0.5 {
			fraction = -0.5
		} else if fraction > 1.5 {
			fraction = 1.5
		}
		a.SetExtra("joint_fraction", fraction)
		return
	}
}

func correctOne(d float64, zones []model.AlignmentZone, firstOffset, lastOffset, firstRaw, lastRaw float64) float64 {
	for _, z := range zones {
		if d >= z.StartRaw && d <= z.EndRaw {
			if z.EndRaw > z.StartRaw {
				frac := (d - z.StartRaw) / (z.EndRaw - z.StartRaw)
				return z.StartCanonical + frac*(z.EndCanonical-z.StartCanonical)
			}
			return z.StartCanonical
		}
	}

	if d < firstRaw {
		return d + firstOffset
	}
	if d > lastRaw {
		return d + lastOffset
	}
	// Between the reference span but inside no zone (i.e. only one pair):
	// translate by that pair's offset.
	return d + firstOffset
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

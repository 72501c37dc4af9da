package normalize

import (
	"strings"

	"github.com/pipeops/ili-alignment/internal/model"
)

// featureTypeKeywords maps a substring found in the folded, lower-cased
// vendor feature-type string to the canonical type it denotes. Longer,
// more specific keys are checked before shorter ones so "internal metal
// loss" is not swallowed by a bare "metal loss" or "corrosion" match.
var featureTypeKeywords = []struct {
	keyword string
	typ     model.FeatureType
}{
	{"external metal loss", model.ExternalMetalLoss},
	{"external corrosion", model.ExternalMetalLoss},
	{"internal metal loss", model.InternalMetalLoss},
	{"internal corrosion", model.InternalMetalLoss},
	{"metal loss", model.MetalLoss},
	{"corrosion", model.MetalLoss},
	{"dent", model.Dent},
	{"crack", model.Crack},
	{"gouge", model.Gouge},
	{"lamination", model.Lamination},
	{"manufacturing", model.ManufacturingDefect},
	{"mfg defect", model.ManufacturingDefect},
	{"girth weld", model.GirthWeld},
	{"circumferential weld", model.GirthWeld},
	{"seam weld", model.SeamWeld},
	{"long seam", model.SeamWeld},
	{"weld", model.GirthWeld}, // unqualified "weld" defaults to the far more common girth weld
	{"valve", model.Valve},
	{"fitting", model.Fitting},
	{"flange", model.Fitting},
	{"tee", model.Fitting},
	{"casing", model.Casing},
}

// ClassifyFeatureType maps a raw vendor feature-type string to the
// canonical enum via substring containment. An empty or unrecognized
// string maps to model.Unknown.
func ClassifyFeatureType(raw string) model.FeatureType {
	folded := foldText(raw)
	if folded == "" {
		return model.Unknown
	}
	for _, entry := range featureTypeKeywords {
		if strings.Contains(folded, entry.keyword) {
			return entry.typ
		}
	}
	return model.Unknown
}

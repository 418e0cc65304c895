package epistemology

// FrameKind names a concrete frame variant.
type FrameKind string

const (
	// Efficiency favors fast, tool-driven evidence over deliberation.
	Efficiency FrameKind = "efficiency"
	// Thoroughness favors broad evidence gathering and careful inference.
	Thoroughness FrameKind = "thoroughness"
	// Security distrusts outside sources and discounts weakly grounded
	// claims.
	Security FrameKind = "security"
	// Persuasive weighs testimony and social evidence heavily; used in
	// negotiation scenarios.
	Persuasive FrameKind = "persuasive"
	// Buyer is the skeptical counterpart to Persuasive in negotiation
	// scenarios.
	Buyer FrameKind = "buyer"
)

// baseParameters are the weights shared by every variant before its
// overrides apply.
var baseParameters = map[string]float64{
	ParamToolResultWeight:     0.8,
	ParamObservationWeight:    0.7,
	ParamTestimonyWeight:      0.5,
	ParamInferenceWeight:      0.6,
	ParamExternalWeight:       0.4,
	ParamConfidenceIncrease:   0.1,
	ParamConfidenceDecrease:   0.15,
	ParamMinSampleSize:        5,
	ParamMaxInitialConfidence: 0.8,
	ParamCompatibilityWeight:  0.5,
	ParamSourceTrustWeight:    0.6,
}

type variantTable struct {
	name        string
	description string
	overrides   map[string]float64
}

var variants = map[FrameKind]variantTable{
	Efficiency: {
		name:        "Efficiency",
		description: "Prioritizes quick task completion; trusts tool results and discounts slow social evidence.",
		overrides: map[string]float64{
			ParamToolResultWeight:  0.9,
			ParamObservationWeight: 0.6,
			ParamTestimonyWeight:   0.4,
			ParamInferenceWeight:   0.5,
			ParamExternalWeight:    0.3,
		},
	},
	Thoroughness: {
		name:        "Thoroughness",
		description: "Prioritizes completeness and careful reasoning; wants more samples before committing.",
		overrides: map[string]float64{
			ParamObservationWeight:    0.8,
			ParamTestimonyWeight:      0.6,
			ParamInferenceWeight:      0.7,
			ParamExternalWeight:       0.6,
			ParamMinSampleSize:        7,
			ParamMaxInitialConfidence: 0.75,
		},
	},
	Security: {
		name:        "Security",
		description: "Prioritizes risk avoidance; distrusts outside sources and keeps initial confidence low.",
		overrides: map[string]float64{
			ParamToolResultWeight:     0.7,
			ParamTestimonyWeight:      0.3,
			ParamExternalWeight:       0.2,
			ParamConfidenceDecrease:   0.2,
			ParamMaxInitialConfidence: 0.7,
			ParamSourceTrustWeight:    0.5,
		},
	},
	Persuasive: {
		name:        "Persuasive",
		description: "Seller-side negotiation stance; weighs testimony and social signals heavily.",
		overrides: map[string]float64{
			ParamToolResultWeight:  0.6,
			ParamObservationWeight: 0.5,
			ParamTestimonyWeight:   0.7,
			ParamExternalWeight:    0.6,
			ParamSourceTrustWeight: 0.7,
		},
	},
	Buyer: {
		name:        "Buyer",
		description: "Buyer-side negotiation stance; skeptical of claims, anchored on verifiable results.",
		overrides: map[string]float64{
			ParamTestimonyWeight:    0.4,
			ParamConfidenceIncrease: 0.08,
			ParamSourceTrustWeight:  0.5,
		},
	},
}

// defaultCompatibility is the discount applied toward any unrecognized
// frame variant.
const defaultCompatibility = 0.3

// compatibility is a fixed lookup, defined per directed pair. Values are
// constants, never computed; self-compatibility is the highest entry in
// each row.
var compatibility = map[FrameKind]map[FrameKind]float64{
	Efficiency: {
		Efficiency:   0.9,
		Thoroughness: 0.4,
		Security:     0.5,
		Persuasive:   0.3,
		Buyer:        0.3,
	},
	Thoroughness: {
		Thoroughness: 0.95,
		Efficiency:   0.4,
		Security:     0.7,
		Persuasive:   0.3,
		Buyer:        0.4,
	},
	Security: {
		Security:     0.95,
		Efficiency:   0.5,
		Thoroughness: 0.7,
		Persuasive:   0.2,
		Buyer:        0.4,
	},
	Persuasive: {
		Persuasive:   0.9,
		Buyer:        0.6,
		Efficiency:   0.3,
		Thoroughness: 0.3,
		Security:     0.2,
	},
	Buyer: {
		Buyer:        0.9,
		Persuasive:   0.6,
		Efficiency:   0.3,
		Thoroughness: 0.4,
		Security:     0.4,
	},
}

// Kinds lists the known frame variants.
func Kinds() []FrameKind {
	return []FrameKind{Efficiency, Thoroughness, Security, Persuasive, Buyer}
}

// IsKnownParameter reports whether key names a frame parameter.
func IsKnownParameter(key string) bool {
	_, ok := baseParameters[key]
	return ok
}

// Package audit implements the leakage-risk rubric applied to each paper
// during full-text review. The enumeration spellings and the additive
// scoring rule are part of the published dataset contract and must not
// change between releases.
package audit

// ValidationProtocol describes how a paper split its data for evaluation.
type ValidationProtocol string

const (
	ProtocolRandomSplit           ValidationProtocol = "random-split"
	ProtocolStaticChronological   ValidationProtocol = "static-chronological"
	ProtocolRollingOriginGlobal   ValidationProtocol = "rolling-origin-global"
	ProtocolRollingOriginTrainSet ValidationProtocol = "rolling-origin-train-only"
	ProtocolNotDocumented         ValidationProtocol = "not-documented"
)

// PreprocessingScope describes which data the paper's normalization
// statistics were computed on.
type PreprocessingScope string

const (
	ScopeExplicitTrainOnly     PreprocessingScope = "explicit-train-only"
	ScopeAmbiguous             PreprocessingScope = "ambiguous"
	ScopeGlobalOrTestInclusive PreprocessingScope = "global-or-test-inclusive"
	ScopeNotDocumented         PreprocessingScope = "not-documented"
)

// DynamicUpdating records whether the model is retrained as the forecast
// origin advances.
type DynamicUpdating string

const (
	UpdatingYes           DynamicUpdating = "yes"
	UpdatingNo            DynamicUpdating = "no"
	UpdatingNotDocumented DynamicUpdating = "not-documented"
)

// RiskBand is the qualitative bracket for a leakage risk score.
type RiskBand string

const (
	BandMinimal  RiskBand = "minimal"
	BandLow      RiskBand = "low"
	BandModerate RiskBand = "moderate"
	BandHigh     RiskBand = "high"
)

// ValidationProtocols lists the accepted protocol spellings in form order.
var ValidationProtocols = []ValidationProtocol{
	ProtocolRandomSplit,
	ProtocolStaticChronological,
	ProtocolRollingOriginGlobal,
	ProtocolRollingOriginTrainSet,
	ProtocolNotDocumented,
}

var PreprocessingScopes = []PreprocessingScope{
	ScopeExplicitTrainOnly,
	ScopeAmbiguous,
	ScopeGlobalOrTestInclusive,
	ScopeNotDocumented,
}

var DynamicUpdatingValues = []DynamicUpdating{
	UpdatingYes,
	UpdatingNo,
	UpdatingNotDocumented,
}

func (p ValidationProtocol) IsValid() bool {
	for _, v := range ValidationProtocols {
		if p == v {
			return true
		}
	}
	return false
}

func (s PreprocessingScope) IsValid() bool {
	for _, v := range PreprocessingScopes {
		if s == v {
			return true
		}
	}
	return false
}

func (d DynamicUpdating) IsValid() bool {
	for _, v := range DynamicUpdatingValues {
		if d == v {
			return true
		}
	}
	return false
}

// LeakageScore computes the 0-3 leakage risk score as the sum of three
// independent binary indicators:
//
//  1. random-split validation violates temporal order,
//  2. global or test-inclusive preprocessing leaks future statistics into
//     training (ambiguous scope contributes the same +1 per the published
//     rubric policy),
//  3. no dynamic updating means a single stale fit is evaluated across the
//     whole test period.
//
// Pure function over closed enumerations; unrecognized values contribute
// nothing. Data-entry faults are caught by Record.Validate and the rater's
// review, not here.
func LeakageScore(p ValidationProtocol, s PreprocessingScope, d DynamicUpdating) int {
	score := 0
	if p == ProtocolRandomSplit {
		score++
	}
	if s == ScopeGlobalOrTestInclusive || s == ScopeAmbiguous {
		score++
	}
	if d == UpdatingNo {
		score++
	}
	return score
}

// BandFor maps a leakage risk score onto its qualitative bracket.
func BandFor(score int) RiskBand {
	switch {
	case score <= 0:
		return BandMinimal
	case score == 1:
		return BandLow
	case score == 2:
		return BandModerate
	default:
		return BandHigh
	}
}

// RubricIndicators is the fixed rubric text published on the workbook's
// reference sheet, one row per indicator.
var RubricIndicators = []struct {
	Indicator string
	Condition string
}{
	{
		Indicator: "Temporal-order violation (+1)",
		Condition: "validation_protocol = random-split",
	},
	{
		Indicator: "Preprocessing leakage (+1)",
		Condition: "preprocessing_scope = global-or-test-inclusive or ambiguous",
	},
	{
		Indicator: "No iterative retraining (+1)",
		Condition: "dynamic_updating = no",
	},
}

package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Every one of the 5x4x3 input combinations must score as the sum of the
// three indicators and land in [0,3].
func TestLeakageScore_Exhaustive(t *testing.T) {
	for _, p := range ValidationProtocols {
		for _, s := range PreprocessingScopes {
			for _, d := range DynamicUpdatingValues {
				want := 0
				if p == ProtocolRandomSplit {
					want++
				}
				if s == ScopeGlobalOrTestInclusive || s == ScopeAmbiguous {
					want++
				}
				if d == UpdatingNo {
					want++
				}

				got := LeakageScore(p, s, d)
				assert.Equal(t, want, got, "protocol=%s scope=%s updating=%s", p, s, d)
				assert.GreaterOrEqual(t, got, 0)
				assert.LessOrEqual(t, got, 3)
			}
		}
	}
}

func TestLeakageScore_Idempotent(t *testing.T) {
	first := LeakageScore(ProtocolRandomSplit, ScopeAmbiguous, UpdatingNo)
	second := LeakageScore(ProtocolRandomSplit, ScopeAmbiguous, UpdatingNo)
	assert.Equal(t, first, second)
}

func TestLeakageScore_ZeroRiskCombination(t *testing.T) {
	got := LeakageScore(ProtocolRollingOriginTrainSet, ScopeExplicitTrainOnly, UpdatingYes)
	assert.Equal(t, 0, got)
}

// random-split plus global preprocessing scores at least 2 regardless of
// the updating answer.
func TestLeakageScore_HighRiskFloor(t *testing.T) {
	for _, d := range DynamicUpdatingValues {
		got := LeakageScore(ProtocolRandomSplit, ScopeGlobalOrTestInclusive, d)
		assert.GreaterOrEqual(t, got, 2, "updating=%s", d)
	}
}

// The documented moderate-risk example row (paper C1).
func TestLeakageScore_ModerateExample(t *testing.T) {
	got := LeakageScore(ProtocolStaticChronological, ScopeAmbiguous, UpdatingNo)
	assert.Equal(t, 2, got)
	assert.Equal(t, BandModerate, BandFor(got))
}

func TestBandFor(t *testing.T) {
	assert.Equal(t, BandMinimal, BandFor(0))
	assert.Equal(t, BandLow, BandFor(1))
	assert.Equal(t, BandModerate, BandFor(2))
	assert.Equal(t, BandHigh, BandFor(3))
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, ProtocolRandomSplit.IsValid())
	assert.True(t, ScopeNotDocumented.IsValid())
	assert.True(t, UpdatingNotDocumented.IsValid())

	assert.False(t, ValidationProtocol("k-fold").IsValid())
	assert.False(t, PreprocessingScope("").IsValid())
	assert.False(t, DynamicUpdating("maybe").IsValid())
}

package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/distill/internal/config"
	"github.com/agenthands/distill/internal/core/catalog"
)

func newOptimizer(t *testing.T) *Optimizer {
	t.Helper()
	cat, err := catalog.Default(nil)
	assert.NoError(t, err)
	return New(cat, config.Default().Optimizer)
}

func TestPlan_EmptyTranscript(t *testing.T) {
	opt := newOptimizer(t)

	_, err := opt.Plan(0, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = opt.Plan(-5, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPlan_MandatoryPassesAlwaysActive(t *testing.T) {
	opt := newOptimizer(t)

	for _, length := range []int{1, 500, 8000, 32000, 100000, 1000000} {
		plan, err := opt.Plan(length, "")
		assert.NoError(t, err)

		names := map[string]bool{}
		for _, def := range plan {
			names[def.Name] = true
		}
		assert.True(t, names[catalog.PassEntities], "length %d", length)
		assert.True(t, names[catalog.PassRelationships], "length %d", length)
	}
}

// Every tier boundary must stay under the service ceiling; this is the
// structural no-truncation guarantee.
func TestPlan_NoTierExceedsCeiling(t *testing.T) {
	cfg := config.Default().Optimizer
	opt := newOptimizer(t)

	boundaries := []int{
		1,
		cfg.ShortMaxChars - 1, cfg.ShortMaxChars, cfg.ShortMaxChars + 1,
		cfg.MediumMaxChars - 1, cfg.MediumMaxChars, cfg.MediumMaxChars + 1,
		cfg.LongMaxChars - 1, cfg.LongMaxChars, cfg.LongMaxChars + 1,
		cfg.LongMaxChars * 10,
	}

	for _, length := range boundaries {
		plan, err := opt.Plan(length, "investigative")
		assert.NoError(t, err)
		for _, def := range plan {
			assert.LessOrEqual(t, def.MaxOutputTokens, cfg.ServiceCeilingTokens,
				"pass %s at length %d", def.Name, length)
			assert.Positive(t, def.MaxOutputTokens)
		}
	}
}

func TestPlan_BudgetsScaleByTier(t *testing.T) {
	cfg := config.Default().Optimizer
	opt := newOptimizer(t)

	shortPlan, err := opt.Plan(cfg.ShortMaxChars-1, "")
	assert.NoError(t, err)
	longPlan, err := opt.Plan(cfg.LongMaxChars+1, "")
	assert.NoError(t, err)

	var shortEntities, longEntities int
	for _, def := range shortPlan {
		if def.Name == catalog.PassEntities {
			shortEntities = def.MaxOutputTokens
		}
	}
	for _, def := range longPlan {
		if def.Name == catalog.PassEntities {
			longEntities = def.MaxOutputTokens
		}
	}

	assert.Equal(t, cfg.ShortBudget, shortEntities)
	assert.Equal(t, cfg.VeryLongBudget, longEntities)
}

func TestPlan_TemporalGatedByLength(t *testing.T) {
	cfg := config.Default().Optimizer
	opt := newOptimizer(t)

	short, err := opt.Plan(cfg.TemporalMinChars-1, "")
	assert.NoError(t, err)
	for _, def := range short {
		assert.NotEqual(t, catalog.PassTemporal, def.Name)
	}

	long, err := opt.Plan(cfg.TemporalMinChars, "")
	assert.NoError(t, err)
	found := false
	for _, def := range long {
		if def.Name == catalog.PassTemporal {
			found = true
		}
	}
	assert.True(t, found)
}

func TestPlan_EvidenceGatedByClassification(t *testing.T) {
	opt := newOptimizer(t)

	technical, err := opt.Plan(10000, "technical")
	assert.NoError(t, err)
	for _, def := range technical {
		assert.NotEqual(t, catalog.PassEvidence, def.Name)
	}

	investigative, err := opt.Plan(10000, "investigative")
	assert.NoError(t, err)
	found := false
	for _, def := range investigative {
		if def.Name == catalog.PassEvidence {
			found = true
		}
	}
	assert.True(t, found)
}

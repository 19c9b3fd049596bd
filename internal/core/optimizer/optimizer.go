package optimizer

import (
	"errors"
	"strings"

	"github.com/agenthands/distill/internal/config"
	"github.com/agenthands/distill/internal/core/catalog"
	"github.com/agenthands/distill/internal/core/model"
)

// ErrInvalidInput is returned for an empty or nonsensical transcript; no
// passes are scheduled in that case.
var ErrInvalidInput = errors.New("distill: invalid transcript input")

// Optimizer selects which catalog passes run for a transcript and clamps
// per-pass token budgets to the tier for its length.
type Optimizer struct {
	Catalog *catalog.Catalog
	Config  config.OptimizerConfig
}

func New(cat *catalog.Catalog, cfg config.OptimizerConfig) *Optimizer {
	return &Optimizer{Catalog: cat, Config: cfg}
}

// Plan returns the active pass definitions, budgets already applied, in the
// catalog's topological order.
func (o *Optimizer) Plan(transcriptLen int, classification string) ([]model.PassDefinition, error) {
	if transcriptLen <= 0 {
		return nil, ErrInvalidInput
	}

	budget := o.tierBudget(transcriptLen)

	var active []model.PassDefinition
	for _, def := range o.Catalog.All() {
		if !o.activates(def, transcriptLen, classification) {
			continue
		}
		// Mandatory passes produce output proportional to transcript length
		// and take the full tier budget; auxiliary passes keep their catalog
		// budget, clamped to the tier.
		if def.Mandatory {
			def.MaxOutputTokens = budget
		} else if def.MaxOutputTokens > budget {
			def.MaxOutputTokens = budget
		}
		if def.MaxOutputTokens > o.Config.ServiceCeilingTokens {
			def.MaxOutputTokens = o.Config.ServiceCeilingTokens
		}
		active = append(active, def)
	}
	return active, nil
}

// activates applies the pass selection policy: passes with primary
// structural value always run, auxiliary passes are gated by transcript
// length or content classification.
func (o *Optimizer) activates(def model.PassDefinition, transcriptLen int, classification string) bool {
	switch def.Name {
	case catalog.PassTemporal:
		return transcriptLen >= o.Config.TemporalMinChars
	case catalog.PassEvidence:
		switch strings.ToLower(classification) {
		case "investigative", "interview", "news", "debate":
			return true
		}
		return false
	default:
		// Mandatory passes and general-value passes (key points) always run.
		return true
	}
}

// tierBudget maps transcript length to the per-pass output budget for that
// tier. Budgets never exceed the service ceiling.
func (o *Optimizer) tierBudget(transcriptLen int) int {
	cfg := o.Config
	var budget int
	switch {
	case transcriptLen < cfg.ShortMaxChars:
		budget = cfg.ShortBudget
	case transcriptLen < cfg.MediumMaxChars:
		budget = cfg.MediumBudget
	case transcriptLen < cfg.LongMaxChars:
		budget = cfg.LongBudget
	default:
		budget = cfg.VeryLongBudget
	}
	if budget > cfg.ServiceCeilingTokens {
		budget = cfg.ServiceCeilingTokens
	}
	return budget
}

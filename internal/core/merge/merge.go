package merge

import (
	"sort"

	"github.com/agenthands/distill/internal/core/model"
)

// Merge folds all terminal pass results into one MergedResult. It is a pure
// function: no inference calls, and the output depends only on the result
// set, never on the order passes completed in. Step order is fixed because
// relationship validation and evidence attachment both key off the
// deduplicated entity set.
func Merge(results map[string]model.PassResult) *model.MergedResult {
	merged := &model.MergedResult{
		Entities:      []model.Entity{},
		Relationships: []model.Relationship{},
		Events:        []model.TemporalEvent{},
		KeyPoints:     []model.KeyPoint{},
	}

	// Iterate pass names sorted so map ordering can never leak into output.
	passNames := make([]string, 0, len(results))
	for name := range results {
		passNames = append(passNames, name)
	}
	sort.Strings(passNames)

	failures := map[string]string{}
	succeeded := 0
	for _, name := range passNames {
		res := results[name]
		if res.Success {
			succeeded++
		} else {
			failures[name] = res.Reason
		}
	}

	// 1. Deduplicate entities by normalized name across all passes.
	entities, byNorm := dedupeEntities(results, passNames)
	merged.Entities = entities

	// 2. Validate relationships against the deduplicated entity set;
	//    dropped references are counted, not silently discarded.
	dropped := 0
	for _, name := range passNames {
		res := results[name]
		if !res.Success {
			continue
		}
		for _, rel := range res.Payload.Relationships {
			subj, subjOK := byNorm[model.NormalizeName(rel.Subject)]
			obj, objOK := byNorm[model.NormalizeName(rel.Object)]
			if !subjOK || !objOK {
				dropped++
				continue
			}
			merged.Relationships = append(merged.Relationships, model.Relationship{
				Subject:    merged.Entities[subj].Name,
				Object:     merged.Entities[obj].Name,
				Type:       rel.Type,
				Fact:       rel.Fact,
				Confidence: rel.Confidence,
			})
		}
	}
	sort.SliceStable(merged.Relationships, func(i, j int) bool {
		a, b := merged.Relationships[i], merged.Relationships[j]
		if a.Subject != b.Subject {
			return a.Subject < b.Subject
		}
		if a.Object != b.Object {
			return a.Object < b.Object
		}
		return a.Type < b.Type
	})

	// 3. Attach evidence quotes to entities by normalized name. Entities
	//    without evidence keep the empty list from dedupeEntities.
	for _, name := range passNames {
		res := results[name]
		if !res.Success {
			continue
		}
		for _, ev := range res.Payload.Evidence {
			idx, ok := byNorm[model.NormalizeName(ev.Entity)]
			if !ok {
				continue
			}
			if !containsString(merged.Entities[idx].Evidence, ev.Quote) {
				merged.Entities[idx].Evidence = append(merged.Entities[idx].Evidence, ev.Quote)
			}
		}
	}

	// Temporal events and key points pass through, ordered deterministically.
	for _, name := range passNames {
		res := results[name]
		if !res.Success {
			continue
		}
		merged.Events = append(merged.Events, res.Payload.Events...)
		merged.KeyPoints = append(merged.KeyPoints, res.Payload.KeyPoints...)
	}
	sort.SliceStable(merged.Events, func(i, j int) bool {
		if merged.Events[i].When != merged.Events[j].When {
			return merged.Events[i].When < merged.Events[j].When
		}
		return merged.Events[i].Description < merged.Events[j].Description
	})
	sort.SliceStable(merged.KeyPoints, func(i, j int) bool {
		if merged.KeyPoints[i].Importance != merged.KeyPoints[j].Importance {
			return merged.KeyPoints[i].Importance > merged.KeyPoints[j].Importance
		}
		return merged.KeyPoints[i].Text < merged.KeyPoints[j].Text
	})

	// 4. Statistics.
	merged.Statistics = model.Statistics{
		TotalEntities:        len(merged.Entities),
		TotalRelationships:   len(merged.Relationships),
		PassesAttempted:      len(results),
		PassesSucceeded:      succeeded,
		DroppedRelationships: dropped,
	}
	if len(failures) > 0 {
		merged.PassFailures = failures
	}

	return merged
}

// entityAccumulator collects every observation of one normalized name so
// the type vote and display name are decided from the full set.
type entityAccumulator struct {
	norm         string
	observations []model.ExtractedEntity
	typeCount    map[string]int
	typeConf     map[string]float64
}

// dedupeEntities merges same-named entities: majority vote on type (ties by
// aggregate confidence, then lexicographic), maximum confidence, earliest
// first-mention offset. Returns the sorted entity list and an index from
// normalized name into it.
func dedupeEntities(results map[string]model.PassResult, passNames []string) ([]model.Entity, map[string]int) {
	accs := map[string]*entityAccumulator{}
	for _, name := range passNames {
		res := results[name]
		if !res.Success {
			continue
		}
		for _, e := range res.Payload.Entities {
			norm := model.NormalizeName(e.Name)
			if norm == "" {
				continue
			}
			acc, ok := accs[norm]
			if !ok {
				acc = &entityAccumulator{
					norm:      norm,
					typeCount: map[string]int{},
					typeConf:  map[string]float64{},
				}
				accs[norm] = acc
			}
			acc.observations = append(acc.observations, e)
			acc.typeCount[e.Type]++
			acc.typeConf[e.Type] += e.Confidence
		}
	}

	norms := make([]string, 0, len(accs))
	for norm := range accs {
		norms = append(norms, norm)
	}
	sort.Strings(norms)

	entities := make([]model.Entity, 0, len(norms))
	byNorm := make(map[string]int, len(norms))
	for _, norm := range norms {
		acc := accs[norm]
		entities = append(entities, model.Entity{
			Name:               displayName(acc),
			Type:               majorityType(acc),
			Confidence:         maxConfidence(acc),
			FirstMentionOffset: earliestOffset(acc),
			Evidence:           []string{},
		})
		byNorm[norm] = len(entities) - 1
	}
	return entities, byNorm
}

// displayName picks the name variant from the highest-confidence
// observation, ties broken lexicographically.
func displayName(acc *entityAccumulator) string {
	best := acc.observations[0]
	for _, obs := range acc.observations[1:] {
		if obs.Confidence > best.Confidence ||
			(obs.Confidence == best.Confidence && obs.Name < best.Name) {
			best = obs
		}
	}
	return best.Name
}

func majorityType(acc *entityAccumulator) string {
	var winner string
	bestVotes := -1
	bestConf := -1.0
	types := make([]string, 0, len(acc.typeCount))
	for t := range acc.typeCount {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		votes := acc.typeCount[t]
		conf := acc.typeConf[t]
		if votes > bestVotes || (votes == bestVotes && conf > bestConf) {
			winner, bestVotes, bestConf = t, votes, conf
		}
	}
	return winner
}

func maxConfidence(acc *entityAccumulator) float64 {
	max := 0.0
	for _, obs := range acc.observations {
		if obs.Confidence > max {
			max = obs.Confidence
		}
	}
	return max
}

func earliestOffset(acc *entityAccumulator) int {
	offset := 0
	seen := false
	for _, obs := range acc.observations {
		if obs.FirstMentionOffset <= 0 {
			continue
		}
		if !seen || obs.FirstMentionOffset < offset {
			offset = obs.FirstMentionOffset
			seen = true
		}
	}
	return offset
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

/*
Copyright 2025 Wayfind Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package wayfind

import (
	"fmt"
	"sort"

	"github.com/wayfindhq/wayfind/model"
)

// RecommendationEngine scores a business profile against the tier catalog
// and produces a ranked recommendation. Scoring is a pure function: no I/O,
// deterministic for a given profile and catalog.
type RecommendationEngine struct {
	catalog      *TierCatalog
	minViability float64
}

// confidenceCap bounds reported confidence to avoid false certainty.
const confidenceCap = 0.95

// defaultMinViability is the score floor below which a tier is not offered
// as an alternative.
const defaultMinViability = 0.2

// Factor weights. They sum to 1 so a tier that is ideal on every metric
// scores 1.0 before the affinity multipliers.
const (
	weightEmployees    = 0.30
	weightLocations    = 0.20
	weightRevenue      = 0.25
	weightTransactions = 0.25
)

// factor contributions: full weight inside the ideal sub-range, a reduced
// share when merely within the hard limit, and a penalty beyond it.
const (
	contributionIdeal   = 1.0
	contributionInRange = 0.4
	contributionPenalty = -0.8
)

// idealRange is the sweet-spot interval of one metric for one tier. Max of
// -1 means open-ended.
type idealRange struct {
	min, max float64
}

func (r idealRange) contains(v float64) bool {
	if v < r.min {
		return false
	}
	return r.max < 0 || v <= r.max
}

// scoringProfile carries the per-tier ideal sub-ranges for the four scale
// factors.
type scoringProfile struct {
	employees    idealRange
	locations    idealRange
	revenue      idealRange
	transactions idealRange
}

var scoringProfiles = map[model.Tier]scoringProfile{
	model.TierMicro: {
		employees:    idealRange{1, 2},
		locations:    idealRange{1, 1},
		revenue:      idealRange{0, 1000},
		transactions: idealRange{0, 200},
	},
	model.TierSmall: {
		employees:    idealRange{3, 15},
		locations:    idealRange{1, 3},
		revenue:      idealRange{1000, 10000},
		transactions: idealRange{50, 2000},
	},
	model.TierMedium: {
		employees:    idealRange{16, 75},
		locations:    idealRange{2, 10},
		revenue:      idealRange{10000, 100000},
		transactions: idealRange{1000, 20000},
	},
	model.TierEnterprise: {
		employees:    idealRange{76, -1},
		locations:    idealRange{5, -1},
		revenue:      idealRange{100000, -1},
		transactions: idealRange{10000, -1},
	},
}

// NewRecommendationEngine builds an engine over the given catalog.
func NewRecommendationEngine(catalog *TierCatalog) *RecommendationEngine {
	return &RecommendationEngine{catalog: catalog, minViability: defaultMinViability}
}

// WithMinViability overrides the alternative-tier score floor. Callers may
// choose anything between 0.1 and 0.3 depending on how aggressive they want
// the alternatives list to be.
func (e *RecommendationEngine) WithMinViability(threshold float64) *RecommendationEngine {
	e.minViability = threshold
	return e
}

type tierScore struct {
	tier  model.Tier
	score float64
}

// Recommend scores the profile against every tier and returns the winner
// with reasoning and up to two viable alternatives. Absent metrics are
// defaulted, never rejected; if no tier produces a positive score the
// static fallback recommendation is returned so the caller is never left
// without one.
func (e *RecommendationEngine) Recommend(profile model.BusinessProfile) model.Recommendation {
	p := profile.Normalized()

	scores := e.scoreAll(p)

	best := scores[0]
	if best.score <= 0 {
		return e.FallbackRecommendation()
	}

	confidence := deriveConfidence(scores)

	rec := model.Recommendation{
		Tier:         best.tier,
		Confidence:   confidence,
		Reasoning:    e.buildReasoning(p, best.tier),
		Alternatives: e.buildAlternatives(best, scores[1:]),
	}
	return rec
}

// Score exposes the raw aggregate score of one tier for a profile. It is
// mainly useful for diagnostics and tests.
func (e *RecommendationEngine) Score(profile model.BusinessProfile, tier model.Tier) float64 {
	return e.scoreTier(profile.Normalized(), tier)
}

// scoreAll returns every tier's score sorted best-first. Ties prefer the
// lower-ranked (cheaper) tier, the conservative choice for the user.
func (e *RecommendationEngine) scoreAll(p model.BusinessProfile) []tierScore {
	ranked := e.catalog.Ranked()
	scores := make([]tierScore, 0, len(ranked))
	for _, tier := range ranked {
		scores = append(scores, tierScore{tier: tier, score: e.scoreTier(p, tier)})
	}
	// Stable sort keeps ascending-rank order among equal scores, so the
	// cheaper tier wins ties.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})
	return scores
}

func (e *RecommendationEngine) scoreTier(p model.BusinessProfile, tier model.Tier) float64 {
	def, ok := e.catalog.Get(tier)
	if !ok {
		return 0
	}
	sp, ok := scoringProfiles[tier]
	if !ok {
		return 0
	}

	score := weightEmployees * factorContribution(float64(p.EmployeeCount), sp.employees, def.Limits.Employees)
	score += weightLocations * factorContribution(float64(p.LocationCount), sp.locations, def.Limits.Locations)
	// Revenue is not a hard tier limit; it can dampen but never penalize.
	score += weightRevenue * factorContribution(p.MonthlyRevenue, sp.revenue, model.Unlimited)
	score += weightTransactions * factorContribution(float64(p.MonthlyTransactions), sp.transactions, def.Limits.Transactions)

	score *= TypeAffinity(tier, p.BusinessType)
	score *= SizeMultiplier(tier, p.BusinessSize)

	// Clamp at zero after the multipliers; no upper clamp is applied before
	// confidence normalization.
	if score < 0 {
		score = 0
	}
	return score
}

func factorContribution(value float64, ideal idealRange, limit int) float64 {
	if limit != model.Unlimited && value > float64(limit) {
		return contributionPenalty
	}
	if ideal.contains(value) {
		return contributionIdeal
	}
	return contributionInRange
}

// deriveConfidence maps the gap between the winner and the runner-up into
// [0.5, confidenceCap]: near-tied scores read as a coin flip, a dominant
// winner approaches certainty.
func deriveConfidence(scores []tierScore) float64 {
	best := scores[0].score
	if best <= 0 {
		return 0.5
	}
	second := 0.0
	if len(scores) > 1 && scores[1].score > 0 {
		second = scores[1].score
	}

	gap := (best - second) / best
	confidence := 0.5 + gap/2
	if confidence > confidenceCap {
		confidence = confidenceCap
	}
	return confidence
}

func (e *RecommendationEngine) buildAlternatives(best tierScore, rest []tierScore) []model.TierAlternative {
	recommended, _ := e.catalog.Get(best.tier)

	alternatives := make([]model.TierAlternative, 0, 2)
	for _, candidate := range rest {
		if len(alternatives) == 2 {
			break
		}
		if candidate.score <= e.minViability {
			continue
		}
		def, ok := e.catalog.Get(candidate.tier)
		if !ok {
			continue
		}

		alt := model.TierAlternative{Tier: candidate.tier}
		if def.Rank < recommended.Rank {
			alt.Reason = fmt.Sprintf("%s is a leaner option if you want to start smaller", def.DisplayName)
			savings := recommended.MonthlyPrice.Sub(def.MonthlyPrice)
			if savings.IsPositive() {
				alt.MonthlySavings = &savings
			}
		} else {
			alt.Reason = fmt.Sprintf("%s gives you more headroom as you grow", def.DisplayName)
		}
		alternatives = append(alternatives, alt)
	}
	return alternatives
}

// reasoningRule is one (predicate, message) pair. Rules are evaluated in a
// fixed order and every rule whose trigger holds contributes a sentence.
type reasoningRule struct {
	applies func(model.BusinessProfile) bool
	message func(model.BusinessProfile) string
}

var typeReasons = map[model.BusinessType]string{
	model.BusinessTypeFree:       "Free-tier businesses benefit most from a low-commitment starting plan",
	model.BusinessTypeRenewables: "Renewables businesses typically grow into usage-heavy plans",
	model.BusinessTypeRetail:     "Retail operations rely on point-of-sale and inventory capabilities",
	model.BusinessTypeWholesale:  "Wholesale operations need volume-oriented transaction capacity",
	model.BusinessTypeIndustry:   "Industrial operations usually require advanced integrations",
}

var scaleReasons = []reasoningRule{
	{
		applies: func(p model.BusinessProfile) bool { return p.EmployeeCount > 100 },
		message: func(p model.BusinessProfile) string {
			return "Large scale operations require enterprise tier capabilities"
		},
	},
	{
		applies: func(p model.BusinessProfile) bool { return p.EmployeeCount > 20 && p.EmployeeCount <= 100 },
		message: func(p model.BusinessProfile) string {
			return fmt.Sprintf("A team of %d fits a mid-market plan", p.EmployeeCount)
		},
	},
	{
		applies: func(p model.BusinessProfile) bool { return p.LocationCount > 3 },
		message: func(p model.BusinessProfile) string {
			return fmt.Sprintf("Managing %d locations calls for multi-location support", p.LocationCount)
		},
	},
}

var closingReasons = map[model.Tier]string{
	model.TierMicro:      "The Micro plan keeps costs minimal while you get started",
	model.TierSmall:      "The Small plan balances price and room to grow for your profile",
	model.TierMedium:     "The Medium plan matches your operational scale",
	model.TierEnterprise: "The Enterprise plan removes every limit for your operation",
}

// buildReasoning assembles the templated explanation in the fixed order:
// business type, scale, revenue, transaction volume, then the closing
// sentence keyed by the recommended tier. Categories whose trigger is false
// are omitted.
func (e *RecommendationEngine) buildReasoning(p model.BusinessProfile, recommended model.Tier) []string {
	reasoning := make([]string, 0, 5)

	if sentence, ok := typeReasons[p.BusinessType]; ok {
		reasoning = append(reasoning, sentence)
	}

	for _, rule := range scaleReasons {
		if rule.applies(p) {
			reasoning = append(reasoning, rule.message(p))
		}
	}

	if p.MonthlyRevenue > 50000 {
		reasoning = append(reasoning, "High monthly revenue supports investing in a bigger plan")
	} else if p.MonthlyRevenue > 0 && p.MonthlyRevenue < 1000 {
		reasoning = append(reasoning, "Modest revenue favors keeping subscription costs low")
	}

	if p.MonthlyTransactions > 10000 {
		reasoning = append(reasoning, "Your transaction volume needs high processing capacity")
	}

	if closing, ok := closingReasons[recommended]; ok {
		reasoning = append(reasoning, closing)
	}
	return reasoning
}

// FallbackRecommendation is the static recommendation returned when scoring
// cannot run. The caller must never be left without a recommendation, so
// the second-from-bottom tier is suggested with fixed confidence.
func (e *RecommendationEngine) FallbackRecommendation() model.Recommendation {
	return model.Recommendation{
		Tier:       model.TierSmall,
		Confidence: 0.5,
		Reasoning: []string{
			"We could not fully analyze your business profile",
			"The Small plan is a safe starting point for most businesses",
			"You can change plans at any time as your needs become clearer",
		},
		Alternatives: []model.TierAlternative{
			{Tier: model.TierMicro, Reason: "Micro is a leaner option if you want to start smaller"},
			{Tier: model.TierMedium, Reason: "Medium gives you more headroom as you grow"},
		},
		Fallback: true,
	}
}

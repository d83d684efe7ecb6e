package config

import "strings"

// ModelPricing holds per-million-token prices for a model.
type ModelPricing struct {
	InputPerMTok      float64
	OutputPerMTok     float64
	CacheWritePerMTok float64
	CacheReadPerMTok  float64
}

type pricingEntry struct {
	Model   string
	Pricing ModelPricing
}

// pricingTable maps model base names to their pricing. Order matters: prefix
// matching takes the first entry that matches, so newer models come first.
var pricingTable = []pricingEntry{
	{"claude-sonnet-4-6", ModelPricing{3.00, 15.00, 3.75, 0.30}},
	{"claude-sonnet-4-5", ModelPricing{3.00, 15.00, 3.75, 0.30}},
	{"claude-opus-4-6", ModelPricing{15.00, 75.00, 18.75, 1.50}},
	{"claude-opus-4-5", ModelPricing{15.00, 75.00, 18.75, 1.50}},
	{"claude-haiku-4-5", ModelPricing{0.80, 4.00, 1.00, 0.08}},
	{"claude-haiku-4-5-20251001", ModelPricing{0.80, 4.00, 1.00, 0.08}},
	{"claude-3-5-sonnet-20241022", ModelPricing{3.00, 15.00, 3.75, 0.30}},
	{"claude-3-5-haiku-20241022", ModelPricing{0.80, 4.00, 1.00, 0.08}},
	{"claude-3-opus-20240229", ModelPricing{15.00, 75.00, 18.75, 1.50}},
}

// defaultPricing is the fallback tier (Sonnet rates) for unknown models.
var defaultPricing = ModelPricing{3.00, 15.00, 3.75, 0.30}

// LookupPricing returns the pricing for a model identifier. Exact match
// first, then the first table entry where either string is a prefix of the
// other (handles dated suffixes like "claude-sonnet-4-5-20250929" as well as
// truncated aliases), then the default tier. Never fails.
func LookupPricing(model string) ModelPricing {
	for _, e := range pricingTable {
		if e.Model == model {
			return e.Pricing
		}
	}
	for _, e := range pricingTable {
		if strings.HasPrefix(model, e.Model) || strings.HasPrefix(e.Model, model) {
			return e.Pricing
		}
	}
	return defaultPricing
}

// CalculateCost computes the USD cost for a single turn.
func CalculateCost(model string, inputTokens, outputTokens, cacheCreationTokens, cacheReadTokens int64) float64 {
	p := LookupPricing(model)
	cost := float64(inputTokens) * p.InputPerMTok / 1_000_000
	cost += float64(outputTokens) * p.OutputPerMTok / 1_000_000
	cost += float64(cacheCreationTokens) * p.CacheWritePerMTok / 1_000_000
	cost += float64(cacheReadTokens) * p.CacheReadPerMTok / 1_000_000
	return cost
}

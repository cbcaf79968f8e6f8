package agent

// ModelPricing is the approximate cost per 1M tokens.
type ModelPricing struct {
	InputUSD  float64
	OutputUSD float64
}

// ModelInfo describes a catalog entry served on the models endpoint.
type ModelInfo struct {
	Name             string  `json:"name"`
	DisplayName      string  `json:"display_name"`
	Description      string  `json:"description"`
	MaxTokens        int     `json:"max_tokens"`
	PromptCost1K     float64 `json:"prompt_cost_per_1k"`
	CompletionCost1K float64 `json:"completion_cost_per_1k"`
}

var modelCatalog = []ModelInfo{
	{
		Name:             "gpt-4o-mini",
		DisplayName:      "GPT-4o Mini",
		Description:      "Fast and cost-effective model for most tasks",
		MaxTokens:        128000,
		PromptCost1K:     0.00015,
		CompletionCost1K: 0.0006,
	},
	{
		Name:             "gpt-4o",
		DisplayName:      "GPT-4o",
		Description:      "Most capable model for complex reasoning",
		MaxTokens:        128000,
		PromptCost1K:     0.0025,
		CompletionCost1K: 0.01,
	},
	{
		Name:             "gpt-5-nano",
		DisplayName:      "GPT-5 Nano",
		Description:      "Experimental lightweight model",
		MaxTokens:        128000,
		PromptCost1K:     0.0001,
		CompletionCost1K: 0.0004,
	},
}

// pricing per 1M tokens, used for cost estimation on executions.
var modelPricing = map[string]ModelPricing{
	"gpt-4o-mini": {InputUSD: 0.15, OutputUSD: 0.60},
	"gpt-4o":      {InputUSD: 2.50, OutputUSD: 10.00},
	"gpt-5-nano":  {InputUSD: 0.10, OutputUSD: 0.40},
}

// SupportedModels lists the models agents can be created for.
func SupportedModels() []string {
	names := make([]string, len(modelCatalog))
	for i, m := range modelCatalog {
		names[i] = m.Name
	}
	return names
}

// SupportedModel reports whether the named model is in the catalog.
func SupportedModel(name string) bool {
	_, ok := modelPricing[name]
	return ok
}

// Catalog returns the full model catalog.
func Catalog() []ModelInfo {
	return append([]ModelInfo(nil), modelCatalog...)
}

package model

import ai "github.com/spetersoncode/learnpath"

// ChatModel represents a chat/completion model from any provider.
type ChatModel struct {
	id       string
	provider ai.Provider
	pricing  ChatPricing
}

// String returns the API identifier for this model.
func (m ChatModel) String() string { return m.id }

// Provider returns which provider this model belongs to.
func (m ChatModel) Provider() ai.Provider { return m.provider }

// Pricing returns the pricing for this model.
func (m ChatModel) Pricing() ChatPricing { return m.pricing }

// Cost estimates the USD cost of usage on this model.
func (m ChatModel) Cost(u ai.Usage) float64 { return CalculateCost(u, m.pricing) }

// Anthropic Claude Models
// Model pricing last verified: December 14, 2025
var (
	ClaudeOpus45   = ChatModel{id: "claude-opus-4-5", provider: ai.ProviderAnthropic, pricing: ChatPricing{InputPerMillion: 5.00, OutputPerMillion: 25.00}}
	ClaudeSonnet45 = ChatModel{id: "claude-sonnet-4-5", provider: ai.ProviderAnthropic, pricing: ChatPricing{InputPerMillion: 3.00, OutputPerMillion: 15.00}}
	ClaudeHaiku45  = ChatModel{id: "claude-haiku-4-5", provider: ai.ProviderAnthropic, pricing: ChatPricing{InputPerMillion: 1.00, OutputPerMillion: 5.00}}
)

// OpenAI Models
// Model pricing last verified: December 14, 2025
var (
	GPT52     = ChatModel{id: "gpt-5.2", provider: ai.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 1.75, OutputPerMillion: 14.00, CachedInputPerMillion: 0.175}}
	GPT5Mini  = ChatModel{id: "gpt-5-mini", provider: ai.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 0.25, OutputPerMillion: 1.00, CachedInputPerMillion: 0.025}}
	GPT41     = ChatModel{id: "gpt-4.1", provider: ai.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 2.00, OutputPerMillion: 8.00, CachedInputPerMillion: 0.50}}
	GPT41Mini = ChatModel{id: "gpt-4.1-mini", provider: ai.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 0.40, OutputPerMillion: 1.60, CachedInputPerMillion: 0.10}}
	O4Mini    = ChatModel{id: "o4-mini", provider: ai.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 0.50, OutputPerMillion: 2.00, CachedInputPerMillion: 0.05}}
)

// Google Gemini Models
// Model pricing last verified: December 14, 2025
var (
	Gemini25Pro       = ChatModel{id: "gemini-2.5-pro", provider: ai.ProviderGoogle, pricing: ChatPricing{InputPerMillion: 1.25, OutputPerMillion: 10.00, InputPerMillionLong: 2.50, OutputPerMillionLong: 15.00}}
	Gemini25Flash     = ChatModel{id: "gemini-2.5-flash", provider: ai.ProviderGoogle, pricing: ChatPricing{InputPerMillion: 0.15, OutputPerMillion: 0.60, InputPerMillionLong: 0.15, OutputPerMillionLong: 0.60}}
	Gemini25FlashLite = ChatModel{id: "gemini-2.5-flash-lite", provider: ai.ProviderGoogle, pricing: ChatPricing{InputPerMillion: 0.075, OutputPerMillion: 0.30, InputPerMillionLong: 0.075, OutputPerMillionLong: 0.30}}
)

var catalog = []ChatModel{
	ClaudeOpus45, ClaudeSonnet45, ClaudeHaiku45,
	GPT52, GPT5Mini, GPT41, GPT41Mini, O4Mini,
	Gemini25Pro, Gemini25Flash, Gemini25FlashLite,
}

// Default returns the model used for p when none is configured.
// Gemini Flash is the default for unknown providers.
func Default(p ai.Provider) ChatModel {
	switch p {
	case ai.ProviderAnthropic:
		return ClaudeSonnet45
	case ai.ProviderOpenAI:
		return GPT41Mini
	default:
		return Gemini25Flash
	}
}

// Lookup finds a model by API identifier.
func Lookup(id string) (ChatModel, bool) {
	for _, m := range catalog {
		if m.id == id {
			return m, true
		}
	}
	return ChatModel{}, false
}

// All returns every known model.
func All() []ChatModel {
	return append([]ChatModel(nil), catalog...)
}

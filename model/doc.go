// Package model lists the chat models learnpath can drive, with their
// per-token pricing.
//
// The client uses [Default] when no model is configured, and the metrics
// package uses [Lookup] and [ChatModel.Cost] to estimate spend per run:
//
//	m, ok := model.Lookup("gemini-2.5-flash")
//	if ok {
//	    usd := m.Cost(resp.Usage)
//	}
//
// Some pricing fields are provider-specific; check [ChatPricing.HasCachedPricing]
// and [ChatPricing.HasLongContextPricing] before relying on them.
package model

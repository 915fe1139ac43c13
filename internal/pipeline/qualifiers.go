package pipeline

import "github.com/riskibarqy/matchfeed/internal/domain/event"

// Rule maps one or more aliased raw codes to a canonical qualifier value.
type Rule struct {
	Codes []int
	Value string
}

// Chain is an ordered list of rules for one qualifier category. The first
// rule with any of its codes present wins; later rules are not checked.
type Chain struct {
	Category event.QualifierCategory
	Rules    []Rule
}

func (c Chain) Match(raw RawQualifiers) (event.Qualifier, bool) {
	for _, rule := range c.Rules {
		for _, code := range rule.Codes {
			if raw.Has(code) {
				return event.Qualifier{Category: c.Category, Value: rule.Value}, true
			}
		}
	}
	return event.Qualifier{}, false
}

// ChainSet evaluates its chains independently, in order.
type ChainSet []Chain

func (s ChainSet) Evaluate(raw RawQualifiers) []event.Qualifier {
	if len(s) == 0 || len(raw) == 0 {
		return nil
	}
	out := make([]event.Qualifier, 0, len(s))
	for _, chain := range s {
		if qualifier, ok := chain.Match(raw); ok {
			out = append(out, qualifier)
		}
	}
	return out
}

func (s ChainSet) Category(category event.QualifierCategory) (Chain, bool) {
	for _, chain := range s {
		if chain.Category == category {
			return chain, true
		}
	}
	return Chain{}, false
}

func R(value string, codes ...int) Rule {
	return Rule{Codes: codes, Value: value}
}

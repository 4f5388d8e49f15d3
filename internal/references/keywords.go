// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package references

import (
	"fmt"
	"strings"
)

// KeywordQuota pairs one search keyword with the maximum number of papers
// to fetch for it.
type KeywordQuota struct {
	Keyword string `json:"keyword" yaml:"keyword"`
	Quota   int    `json:"quota" yaml:"quota"`
}

// KeywordBudget is an ordered list of keyword quotas. Order is load-bearing:
// the collector visits keywords in budget order, and flattening keeps the
// first occurrence of a duplicate ID in that same order.
type KeywordBudget []KeywordQuota

// Validate reports malformed budgets: empty budgets, blank keywords, or
// negative quotas. These are caller errors, not degraded conditions.
func (b KeywordBudget) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("keyword budget is empty")
	}
	for _, kq := range b {
		if strings.TrimSpace(kq.Keyword) == "" {
			return fmt.Errorf("keyword budget contains a blank keyword")
		}
		if kq.Quota < 0 {
			return fmt.Errorf("keyword %q has negative quota %d", kq.Keyword, kq.Quota)
		}
	}
	return nil
}

// Expand returns the budget plus every unordered pair of the original
// keywords joined by a space, in index order (i before j). Pairs only;
// no higher-order combinations. A pair inherits the larger of its parents'
// quotas, and no textual dedup is attempted against the originals.
func Expand(budget KeywordBudget) KeywordBudget {
	n := len(budget)
	out := make(KeywordBudget, 0, n+n*(n-1)/2)
	out = append(out, budget...)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			quota := budget[i].Quota
			if budget[j].Quota > quota {
				quota = budget[j].Quota
			}
			out = append(out, KeywordQuota{
				Keyword: budget[i].Keyword + " " + budget[j].Keyword,
				Quota:   quota,
			})
		}
	}
	return out
}

// ParseKeywordSpec parses a CLI keyword specification of the form
// "kw1:5,kw2:3". A keyword without a ":quota" suffix gets defaultQuota.
func ParseKeywordSpec(spec string, defaultQuota int) (KeywordBudget, error) {
	var budget KeywordBudget
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		keyword := part
		quota := defaultQuota
		if idx := strings.LastIndex(part, ":"); idx >= 0 {
			keyword = strings.TrimSpace(part[:idx])
			if _, err := fmt.Sscanf(part[idx+1:], "%d", &quota); err != nil {
				return nil, fmt.Errorf("invalid quota in keyword spec %q", part)
			}
		}
		budget = append(budget, KeywordQuota{Keyword: keyword, Quota: quota})
	}
	if err := budget.Validate(); err != nil {
		return nil, err
	}
	return budget, nil
}

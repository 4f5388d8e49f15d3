// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package references

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/draft-engine/pkg/types"
)

// WriteBibTeX writes one @article entry per unique record to path,
// truncating any existing file first, and returns the emitted citation
// keys in write order. Every field renders as a braced value even when
// empty, so the output always parses as well-formed entries. Duplicate IDs
// keep the first occurrence. An empty paper list produces an empty,
// valid file.
func WriteBibTeX(path string, papers []types.PaperRecord) ([]string, error) {
	var b strings.Builder
	ids := make([]string, 0, len(papers))
	seen := make(map[string]bool)

	for _, p := range papers {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		ids = append(ids, p.ID)

		fmt.Fprintf(&b, "@article{%s,\n", p.ID)
		fmt.Fprintf(&b, "  title = {%s},\n", p.Title)
		fmt.Fprintf(&b, "  author = {%s},\n", p.Authors)
		fmt.Fprintf(&b, "  journal = {%s},\n", p.Venue)
		fmt.Fprintf(&b, "  year = {%s},\n", p.Year)
		fmt.Fprintf(&b, "  url = {%s}\n", p.Link)
		b.WriteString("}\n\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return nil, fmt.Errorf("writing bibliography %s: %w", path, err)
	}
	return ids, nil
}

// WriteCorpusJSON writes the papers to path as an indented JSON object
// keyed by citation key, for the external embedding-evaluation flow.
// Duplicate IDs keep the first occurrence, matching Flatten.
func WriteCorpusJSON(path string, papers []types.PaperRecord) error {
	byID := make(map[string]types.PaperRecord, len(papers))
	for _, p := range papers {
		if _, ok := byID[p.ID]; ok {
			continue
		}
		byID[p.ID] = p
	}

	data, err := json.MarshalIndent(byID, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling corpus: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing corpus %s: %w", path, err)
	}
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package references collects candidate literature for a paper title from
// bibliographic APIs, deduplicates it into a corpus, and emits bibliography
// files. Implements: prd008-references (R1-R6);
//
//	docs/ARCHITECTURE § References.
package references

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/draft-engine/pkg/types"
)

// titleWordPattern matches the leading word of a title, used in citation keys.
var titleWordPattern = regexp.MustCompile(`^\w+`)

// fallbackSurname stands in for the first-author surname when a record has
// no parseable author.
const fallbackSurname = "ma"

// defaultVenue replaces an empty or fully-sanitized venue string so BibTeX
// journal fields never end up blank.
const defaultVenue = "arXiv preprint"

// ExternalIDs holds the cross-reference identifiers a provider may attach
// to a record. Field names follow the Semantic Scholar externalIds payload.
type ExternalIDs struct {
	DBLP  string `json:"DBLP"`
	ArXiv string `json:"ArXiv"`
	DOI   string `json:"DOI"`
}

// Link resolves an external URL from the identifiers. Priority is fixed
// across all providers: DBLP, then arXiv, then empty. DOI is carried but
// not yet part of the chain.
func (ids ExternalIDs) Link() string {
	if ids.DBLP != "" {
		return "dblp.org/rec/" + ids.DBLP
	}
	if ids.ArXiv != "" {
		return "arxiv.org/abs/" + ids.ArXiv
	}
	return ""
}

// RawRecord holds provider-agnostic bibliographic facts before
// normalization. Each adapter maps its own payload shape into one of these;
// missing fields stay zero-valued rather than failing the record.
type RawRecord struct {
	Title        string
	Authors      []string
	Year         string
	Venue        string
	Abstract     string
	ShortSummary string
	ExternalIDs  ExternalIDs
	Embedding    []float64
}

// Normalize converts a RawRecord into a canonical PaperRecord. It fails
// only when the title is missing; every other field degrades to a sentinel
// empty. When shortSummary is set and the provider supplied one, the short
// summary replaces the abstract (R1.3).
func Normalize(raw RawRecord, shortSummary bool) (types.PaperRecord, error) {
	title := strings.TrimSpace(raw.Title)
	if title == "" {
		return types.PaperRecord{}, fmt.Errorf("normalizing record: missing title")
	}

	abstract := raw.Abstract
	if shortSummary && raw.ShortSummary != "" {
		abstract = raw.ShortSummary
	}

	venue := SanitizeVenue(raw.Venue)
	if venue == "" {
		venue = defaultVenue
	}

	return types.PaperRecord{
		ID:        CitationKey(raw.Authors, raw.Year, title),
		Title:     title,
		Authors:   strings.Join(raw.Authors, " and "),
		Year:      raw.Year,
		Venue:     venue,
		Link:      raw.ExternalIDs.Link(),
		Abstract:  FlattenAbstract(abstract),
		Embedding: raw.Embedding,
	}, nil
}

// CitationKey derives the stable identifier used as both citation key and
// dedup key: first-author surname + year + first title word, lowercased.
// Two providers reporting identical author/year/title facts produce the
// same key; records that disagree on surname formatting stay distinct.
func CitationKey(authors []string, year, title string) string {
	surname := fallbackSurname
	if len(authors) > 0 {
		if fields := strings.Fields(authors[0]); len(fields) > 0 {
			surname = strings.ReplaceAll(fields[len(fields)-1], "'", "")
		}
	}

	word := titleWordPattern.FindString(title)
	if word == "" {
		// Title starts with punctuation; fall back to its first runes.
		word = title
		if len(word) > 4 {
			word = word[:4]
		}
	}

	return strings.ToLower(surname + year + word)
}

// FlattenAbstract strips raw and escaped newlines so abstracts are always
// a single line, and collapses runs of whitespace.
func FlattenAbstract(s string) string {
	s = strings.ReplaceAll(s, "\\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.Join(strings.Fields(s), " ")
}

// SanitizeVenue keeps letters, digits, spaces, and commas. Venue strings
// feed BibTeX journal fields, where characters like "&" break compilation
// (e.g. "IEEE Power & Energy Society General Meeting").
func SanitizeVenue(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == ',' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package references

import (
	"strings"
	"testing"
)

// --- Citation keys ---

func TestCitationKey(t *testing.T) {
	tests := []struct {
		name    string
		authors []string
		year    string
		title   string
		want    string
	}{
		{
			"surname year word",
			[]string{"Volodymyr Mnih", "Koray Kavukcuoglu"},
			"2015",
			"Human-level control through deep reinforcement learning",
			"mnih2015human",
		},
		{
			"lowercases mixed case",
			[]string{"Alice McKay"},
			"2021",
			"Attention Is All You Need",
			"mckay2021attention",
		},
		{
			"apostrophe stripped from surname",
			[]string{"Liam O'Brien"},
			"2020",
			"Graph networks",
			"obrien2020graph",
		},
		{
			"no authors falls back",
			nil,
			"2019",
			"Survey of methods",
			"ma2019survey",
		},
		{
			"empty author string falls back",
			[]string{"   "},
			"2019",
			"Survey of methods",
			"ma2019survey",
		},
		{
			"title starting with punctuation uses leading runes",
			[]string{"Jane Roe"},
			"2018",
			"(Re)thinking evaluation",
			"roe2018(re)",
		},
		{
			"no year",
			[]string{"Jane Roe"},
			"",
			"Deep learning",
			"roedeep",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CitationKey(tt.authors, tt.year, tt.title)
			if got != tt.want {
				t.Errorf("CitationKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCitationKeyStableAcrossProviders(t *testing.T) {
	// Two providers reporting the same facts must produce the same key,
	// since the key is also the dedup key.
	a := CitationKey([]string{"Volodymyr Mnih"}, "2013", "Playing Atari with Deep Reinforcement Learning")
	b := CitationKey([]string{"Volodymyr Mnih", "Koray Kavukcuoglu"}, "2013", "Playing atari with deep reinforcement learning")
	if a != b {
		t.Errorf("keys differ: %q vs %q", a, b)
	}
}

// --- External ID link resolution ---

func TestExternalIDsLink(t *testing.T) {
	tests := []struct {
		name string
		ids  ExternalIDs
		want string
	}{
		{"DBLP preferred", ExternalIDs{DBLP: "journals/corr/MnihKSGAWR13", ArXiv: "1312.5602"}, "dblp.org/rec/journals/corr/MnihKSGAWR13"},
		{"arXiv when no DBLP", ExternalIDs{ArXiv: "1312.5602"}, "arxiv.org/abs/1312.5602"},
		{"DOI alone yields no link", ExternalIDs{DOI: "10.1038/nature14236"}, ""},
		{"empty", ExternalIDs{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ids.Link(); got != tt.want {
				t.Errorf("Link() = %q, want %q", got, tt.want)
			}
		})
	}
}

// --- Normalization ---

func TestNormalize(t *testing.T) {
	raw := RawRecord{
		Title:       "  Playing Atari with Deep Reinforcement Learning  ",
		Authors:     []string{"Volodymyr Mnih", "Koray Kavukcuoglu"},
		Year:        "2013",
		Venue:       "NIPS Deep Learning Workshop",
		Abstract:    "We present the first deep learning model\\nto learn control policies.",
		ExternalIDs: ExternalIDs{ArXiv: "1312.5602"},
		Embedding:   []float64{0.1, 0.2},
	}

	rec, err := Normalize(raw, false)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if rec.ID != "mnih2013playing" {
		t.Errorf("ID = %q, want %q", rec.ID, "mnih2013playing")
	}
	if rec.Title != "Playing Atari with Deep Reinforcement Learning" {
		t.Errorf("Title = %q, want trimmed title", rec.Title)
	}
	if rec.Authors != "Volodymyr Mnih and Koray Kavukcuoglu" {
		t.Errorf("Authors = %q, want ' and '-joined names", rec.Authors)
	}
	if rec.Link != "arxiv.org/abs/1312.5602" {
		t.Errorf("Link = %q, want arXiv link", rec.Link)
	}
	if strings.Contains(rec.Abstract, "\\n") || strings.Contains(rec.Abstract, "\n") {
		t.Errorf("Abstract still contains newlines: %q", rec.Abstract)
	}
	if len(rec.Embedding) != 2 {
		t.Errorf("Embedding length = %d, want 2", len(rec.Embedding))
	}
}

func TestNormalizeMissingTitle(t *testing.T) {
	_, err := Normalize(RawRecord{Authors: []string{"Jane Roe"}}, false)
	if err == nil {
		t.Fatal("expected error for missing title")
	}
	if !strings.Contains(err.Error(), "title") {
		t.Errorf("error = %q, want mention of title", err.Error())
	}
}

func TestNormalizeShortSummary(t *testing.T) {
	raw := RawRecord{
		Title:        "A Paper",
		Abstract:     "The long abstract.",
		ShortSummary: "The tldr.",
	}

	rec, err := Normalize(raw, true)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.Abstract != "The tldr." {
		t.Errorf("Abstract = %q, want short summary", rec.Abstract)
	}

	// Without the flag, the abstract stays.
	rec, err = Normalize(raw, false)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.Abstract != "The long abstract." {
		t.Errorf("Abstract = %q, want full abstract", rec.Abstract)
	}

	// Flag set but no summary available: keep the abstract.
	raw.ShortSummary = ""
	rec, err = Normalize(raw, true)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.Abstract != "The long abstract." {
		t.Errorf("Abstract = %q, want fallback to abstract", rec.Abstract)
	}
}

func TestNormalizeVenueDefault(t *testing.T) {
	rec, err := Normalize(RawRecord{Title: "A Paper"}, false)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.Venue != "arXiv preprint" {
		t.Errorf("Venue = %q, want default", rec.Venue)
	}
}

// --- Abstract flattening ---

func TestFlattenAbstract(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"escaped newlines", `line one\nline two`, "line one line two"},
		{"raw newlines", "line one\nline two", "line one line two"},
		{"mixed and repeated whitespace", "a\\n\n  b\t c", "a b c"},
		{"already flat", "plain text", "plain text"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FlattenAbstract(tt.in); got != tt.want {
				t.Errorf("FlattenAbstract(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// --- Venue sanitization ---

func TestSanitizeVenue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ampersand removed", "IEEE Power & Energy Society General Meeting", "IEEE Power Energy Society General Meeting"},
		{"commas kept", "NeurIPS, Workshop Track", "NeurIPS, Workshop Track"},
		{"unicode letters kept", "Journal für Mathematik", "Journal für Mathematik"},
		{"symbols stripped", "Proc. [2024] #1", "Proc 2024 1"},
		{"whitespace collapsed", "  A   B  ", "A B"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeVenue(tt.in); got != tt.want {
				t.Errorf("SanitizeVenue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

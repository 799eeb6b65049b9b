package engine

import (
	"regexp"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// PatternRule is a declarative weighted matcher. Rules are evaluated
// independently and order-insensitively; weights accumulate with no
// mutual exclusion and no cap. The tables below are configuration, not
// code: tune weights and patterns here without touching the scorers.
type PatternRule struct {
	Pattern *regexp.Regexp
	Weight  int
	Label   string
}

// authenticityRules flags generic, encyclopedic, or formulaic phrasing
// that generated text produces and patients writing about their own
// illness do not. Patterns match the original lowercase text, accents
// included.
var authenticityRules = []PatternRule{
	{regexp.MustCompile(`è una (malattia|patologia|condizione)`), 15, "frase enciclopedica"},
	{regexp.MustCompile(`i sintomi (possono includere|più comuni|tipici)`), 15, "elenco sintomi da manuale"},
	{regexp.MustCompile(`(si consiglia di|si raccomanda di|è consigliabile)`), 15, "tono da consulto medico"},
	{regexp.MustCompile(`è (importante|fondamentale) (consultare|rivolgersi)`), 15, "invito generico allo specialista"},
	{regexp.MustCompile(`(in conclusione|in sintesi|per riassumere)`), 10, "chiusura da saggio"},
	{regexp.MustCompile(`(in generale|generalmente|solitamente)`), 10, "linguaggio generico"},
	{regexp.MustCompile(`(la qualità della vita|il decorso della malattia|un percorso terapeutico)`), 10, "formule impersonali"},
}

// generatedNamePrefixes are the placeholder prefixes the site assigns
// when a reviewer does not pick a username ("Anonimo7", "Utente123").
var generatedNamePrefixes = []string{"anonimo", "utente", "user", "guest"}

// medications commonly named in genuine Italian reviews. Presence of
// any is a specificity marker. Folded, matched as substrings.
var medications = []string{
	"tachipirina", "paracetamolo", "ibuprofene", "oki", "brufen",
	"aulin", "cortisone", "deltacortene", "eutirox", "pantoprazolo",
	"gaviscon", "antibiotico", "antistaminico", "enterogermina",
}

// medicationMatcher is built once at init; ahocorasick gives a single
// pass over the text regardless of list size.
var medicationMatcher = ahocorasick.NewStringMatcher(medications)

// matchesAny reports whether the matcher hits anywhere in folded text.
func matchesAny(m *ahocorasick.Matcher, folded string) bool {
	return len(m.Match([]byte(folded))) > 0
}

// distinctMatches returns how many distinct keywords of the matcher
// appear in the folded text.
func distinctMatches(m *ahocorasick.Matcher, folded string) int {
	hits := m.Match([]byte(folded))
	seen := make(map[int]struct{}, len(hits))
	for _, h := range hits {
		seen[h] = struct{}{}
	}
	return len(seen)
}

// HasGeneratedAuthor reports whether the author name is missing or
// starts with a known placeholder prefix. Anonymous counts: the site
// only stores null authors for auto-generated accounts.
func HasGeneratedAuthor(author string) bool {
	folded := Fold(author)
	if folded == "" {
		return true
	}
	for _, prefix := range generatedNamePrefixes {
		if len(folded) >= len(prefix) && folded[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

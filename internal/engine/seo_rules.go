package engine

import ahocorasick "github.com/cloudflare/ahocorasick"

// boilerplateOpenings are stock phrases that duplicated across many
// reviews look like templated content to search engines. Two or more
// distinct hits trigger the duplication penalty.
var boilerplateOpenings = []string{
	"la mia esperienza",
	"vorrei condividere",
	"ho deciso di scrivere",
	"premetto che",
	"buongiorno a tutti",
	"spero possa essere utile",
}

// clinicalKeywords measure how medically informative a review is.
// Fewer than two distinct hits marks the review as low-information.
var clinicalKeywords = []string{
	"sintomi", "diagnosi", "terapia", "cura", "farmaco", "farmaci",
	"medico", "specialista", "esami", "dosaggio", "trattamento",
	"effetti collaterali", "visita", "ricovero",
}

// Matchers are built once; inputs must be accent-folded before Match.
var (
	boilerplateMatcher = ahocorasick.NewStringMatcher(boilerplateOpenings)
	clinicalMatcher    = ahocorasick.NewStringMatcher(clinicalKeywords)
)

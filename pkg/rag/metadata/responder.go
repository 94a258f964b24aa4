package metadata

import (
	"fmt"
	"strings"
	"unicode"

	"elecciones-rag-be/internal/constant"
	"elecciones-rag-be/internal/registry"
)

// Answer resolves factual party and candidate questions directly from the
// registry. Pure function over the normalized question text; no model call,
// no search. Siglas and candidate names match on whole words so short
// siglas like PA cannot fire inside unrelated words ("partidos").
func Answer(question string) string {
	q := strings.ToLower(question)
	words := tokenize(q)

	var parts []string

	// Candidate mentioned by any distinctive name fragment
	for _, p := range registry.All() {
		if mentionsCandidate(words, p.Candidate) {
			parts = append(parts, fmt.Sprintf(
				"%s es el candidato presidencial del partido %s (%s).",
				p.Candidate, p.Name, p.Abbreviation))
		}
	}

	// Party mentioned by sigla
	for _, p := range registry.All() {
		if !words[strings.ToLower(p.Abbreviation)] {
			continue
		}
		switch {
		case strings.Contains(q, "candidato"):
			parts = append(parts, fmt.Sprintf(
				"El candidato presidencial del %s (%s) es %s.",
				p.Name, p.Abbreviation, p.Candidate))
		case strings.Contains(q, "nombre") || strings.Contains(q, "significa"):
			parts = append(parts, fmt.Sprintf("%s significa %s.", p.Abbreviation, p.Name))
		case strings.Contains(q, "partido") && len(parts) == 0:
			parts = append(parts, fmt.Sprintf(
				"El %s (%s) tiene como candidato presidencial a %s.",
				p.Name, p.Abbreviation, p.Candidate))
		}
	}

	// Party mentioned by full name
	for _, p := range registry.All() {
		if !strings.Contains(q, strings.ToLower(p.Name)) || len(parts) > 0 {
			continue
		}
		switch {
		case strings.Contains(q, "candidato"):
			parts = append(parts, fmt.Sprintf(
				"El candidato presidencial del %s es %s.", p.Name, p.Candidate))
		case strings.Contains(q, "sigla"):
			parts = append(parts, fmt.Sprintf("La sigla del %s es %s.", p.Name, p.Abbreviation))
		}
	}

	if len(parts) == 0 {
		if strings.Contains(q, "candidatos") || strings.Contains(q, "partidos") {
			parts = append(parts,
				"Los 20 partidos inscritos para las elecciones de Costa Rica 2026 son:\n")
			for _, p := range registry.All() {
				parts = append(parts, fmt.Sprintf(
					"- **%s** (%s): %s", p.Abbreviation, p.Name, p.Candidate))
			}
		} else {
			parts = append(parts, constant.MsgMetadataFallback)
		}
	}

	return strings.Join(parts, "\n")
}

// tokenize splits a lowercase question into a word set.
func tokenize(q string) map[string]bool {
	words := map[string]bool{}
	for _, w := range strings.FieldsFunc(q, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words[w] = true
	}
	return words
}

// mentionsCandidate reports whether the question contains a distinctive part
// of the candidate's name. Short fragments (articles, short surnames) are
// skipped to avoid false positives.
func mentionsCandidate(words map[string]bool, candidate string) bool {
	for _, part := range strings.Fields(candidate) {
		if len([]rune(part)) <= 4 {
			continue
		}
		if words[strings.ToLower(part)] {
			return true
		}
	}
	return false
}

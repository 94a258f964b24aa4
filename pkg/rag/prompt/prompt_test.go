package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"elecciones-rag-be/pkg/store"
)

func TestBuildIntentClassification(t *testing.T) {
	p := BuildIntentClassification("¿Qué propone el PLN sobre educación?", "")

	assert.Contains(t, p, "specific_party")
	assert.Contains(t, p, "metadata_query")
	assert.Contains(t, p, "¿Qué propone el PLN sobre educación?")
	assert.NotContains(t, p, "CONTEXTO DE LA CONVERSACIÓN PREVIA")
}

func TestBuildIntentClassification_WithHistory(t *testing.T) {
	p := BuildIntentClassification("¿Y el PIN?", "Usuario: ¿Qué propone el PLN sobre educación?")

	assert.Contains(t, p, "CONTEXTO DE LA CONVERSACIÓN PREVIA")
	assert.Contains(t, p, "¿Qué propone el PLN sobre educación?")
}

func TestBuildPartyExtraction_ListsRegistry(t *testing.T) {
	p := BuildPartyExtraction("¿Qué dice Feinzaig sobre economía?")

	assert.Contains(t, p, "PLN: Partido Liberación Nacional")
	assert.Contains(t, p, "candidato: Fabricio Alvarado Muñoz")
	assert.Contains(t, p, "NINGUNO")
	assert.Contains(t, p, "¿Qué dice Feinzaig sobre economía?")
}

func TestBuildRAGResponse_TruncatesLongChunks(t *testing.T) {
	long := strings.Repeat("a", 800)
	chunks := []store.ScoredChunk{{Text: long, Party: "PLN", Score: 0.9}}

	p := BuildRAGResponse("¿Qué propone el PLN?", chunks, "specific_party", 500)

	assert.Contains(t, p, strings.Repeat("a", 500)+"...")
	assert.NotContains(t, p, strings.Repeat("a", 501))
	assert.Contains(t, p, "[Fuente 1] Partido: PLN")
}

func TestBuildRAGResponse_IntentInstructions(t *testing.T) {
	chunks := []store.ScoredChunk{{Text: "propuesta", Party: "FA", Score: 0.5}}

	comparison := BuildRAGResponse("Compara", chunks, "general_comparison", 500)
	assert.Contains(t, comparison, "GENERAL o COMPARATIVA")

	plan := BuildRAGResponse("Plan del FA", chunks, "party_general_plan", 500)
	assert.Contains(t, plan, "RESUMEN GENERAL o COMPLETO")

	specific := BuildRAGResponse("¿Qué propone el FA?", chunks, "specific_party", 500)
	assert.Contains(t, specific, "partido ESPECÍFICO")
}

func TestBuildRAGResponse_UnknownPartyLabel(t *testing.T) {
	chunks := []store.ScoredChunk{{Text: "texto", Score: 0.1}}

	p := BuildRAGResponse("pregunta", chunks, "unclear", 500)

	assert.Contains(t, p, "Partido: Unknown")
}

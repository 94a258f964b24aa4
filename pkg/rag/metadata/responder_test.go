package metadata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"elecciones-rag-be/internal/constant"
)

func TestAnswer_CandidateOfParty(t *testing.T) {
	answer := Answer("¿Quién es el candidato del PLN?")

	assert.Contains(t, answer, "Álvaro Ramos Chaves")
	assert.Contains(t, answer, "PLN")
}

func TestAnswer_PartyOfCandidate(t *testing.T) {
	answer := Answer("¿Cuál es el partido de Natalia Díaz?")

	assert.Contains(t, answer, "Natalia Díaz Quintana")
	assert.Contains(t, answer, "Unidos Podemos")
}

func TestAnswer_SiglaMeaning(t *testing.T) {
	answer := Answer("¿Qué significa PUSC?")

	assert.Contains(t, answer, "PUSC significa Partido Unidad Social Cristiana.")
}

func TestAnswer_FullPartyList(t *testing.T) {
	answer := Answer("¿Cuáles son los partidos inscritos?")

	assert.Contains(t, answer, "Los 20 partidos inscritos")
	for _, abbr := range []string{"PLN", "PUSC", "FA", "PNR", "UP"} {
		assert.Contains(t, answer, "**"+abbr+"**")
	}
	assert.GreaterOrEqual(t, strings.Count(answer, "\n- "), 19)
}

func TestAnswer_UnrecognizedFallsBack(t *testing.T) {
	answer := Answer("¿Cuánto cuesta un café?")

	assert.Equal(t, constant.MsgMetadataFallback, answer)
}

func TestAnswer_Deterministic(t *testing.T) {
	question := "¿Quién es el candidato del FA?"
	assert.Equal(t, Answer(question), Answer(question))
}

func TestAnswer_CandidateBySurname(t *testing.T) {
	answer := Answer("¿Qué partido representa Feinzaig?")

	assert.Contains(t, answer, "Eliecer Feinzaig Mintz")
	assert.Contains(t, answer, "PLP")
}

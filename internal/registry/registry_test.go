package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryHasTwentyParties(t *testing.T) {
	assert.Equal(t, 20, Count())
	assert.Len(t, All(), 20)
}

func TestByAbbreviation(t *testing.T) {
	tests := []struct {
		abbr      string
		candidate string
		found     bool
	}{
		{"PLN", "Álvaro Ramos Chaves", true},
		{"pln", "Álvaro Ramos Chaves", true},
		{" PUSC ", "Juan Carlos Hidalgo Bogantes", true},
		{"FA", "Ariel Robles Barrantes", true},
		{"UP", "Natalia Díaz Quintana", true},
		{"XYZ", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.abbr, func(t *testing.T) {
			p, ok := ByAbbreviation(tt.abbr)
			require.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.candidate, p.Candidate)
			}
		})
	}
}

func TestByCandidateAndName(t *testing.T) {
	abbr, ok := ByCandidate("Fabricio Alvarado Muñoz")
	require.True(t, ok)
	assert.Equal(t, "PNR", abbr)

	abbr, ok = ByName("Partido Liberal Progresista")
	require.True(t, ok)
	assert.Equal(t, "PLP", abbr)

	_, ok = ByCandidate("Nadie Conocido")
	assert.False(t, ok)
}

func TestIsRegistered(t *testing.T) {
	assert.True(t, IsRegistered("CAC"))
	assert.True(t, IsRegistered("pdlct"))
	assert.False(t, IsRegistered("PAC"))
}

func TestAbbreviationsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, abbr := range Abbreviations() {
		assert.False(t, seen[abbr], "duplicate sigla %s", abbr)
		seen[abbr] = true
	}
	assert.Len(t, seen, 20)
}

func TestAllReturnsCopy(t *testing.T) {
	first := All()
	first[0].Abbreviation = "MUTATED"
	assert.Equal(t, "ACRM", All()[0].Abbreviation)
}

package registry

import "strings"

// Party holds the electoral registry entry for one political party in the
// Costa Rica 2026 presidential election, as published by the TSE.
type Party struct {
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`
	Candidate    string `json:"candidate"`
	Site         string `json:"site"`
	Plan         string `json:"plan"`
}

var parties = []Party{
	{
		Abbreviation: "ACRM",
		Name:         "Aquí Costa Rica Manda",
		Candidate:    "Ronny Castillo González",
		Site:         "https://www.tse.go.cr/fichas/candidaturas/P/p-ACRM",
		Plan:         "ACRM.pdf",
	},
	{
		Abbreviation: "CAC",
		Name:         "Coalición Agenda Ciudadana",
		Candidate:    "Claudia Dobles Camargo",
		Site:         "https://www.tse.go.cr/fichas/candidaturas/P/p-CAC",
		Plan:         "CAC.pdf",
	},
	{
		Abbreviation: "CDS",
		Name:         "Centro Democrático y Social",
		Candidate:    "Ana Virginia Calzada",
		Site:         "https://www.tse.go.cr/fichas/candidaturas/P/p-CDS",
		Plan:         "CDS.pdf",
	},
	{
		Abbreviation: "CR1",
		Name:         "Costa Rica Primero",
		Candidate:    "Douglas Caamaño Quirós",
		Site:         "https://www.tse.go.cr/fichas/candidaturas/P/p-CR1",
		Plan:         "CR1.pdf",
	},
	{
		Abbreviation: "FA",
		Name:         "Frente Amplio",
		Candidate:    "Ariel Robles Barrantes",
		Site:         "https://www.tse.go.cr/fichas/candidaturas/P/p-FA",
		Plan:         "FA.pdf",
	},
	{
		Abbreviation: "PA",
		Name:         "Partido Avanza",
		Candidate:    "Jose Aguilar Berrocal",
		Site:         "https://www.tse.go.cr/fichas/candidaturas/P/p-PA",
		Plan:         "PA.pdf",
	},
	{
		Abbreviation: "PDLCT",
		Name:         "Partido de la Clase Trabajadora",
		Candidate:    "David Hernández Brenes",
		Site:         "https://www.tse.go.cr/fichas/candidaturas/P/p-PDLCT",
		Plan:         "PDLCT.pdf",
	},
	{
		Abbreviation: "PEL",
		Name:         "Partido Esperanza y Libertad",
		Candidate:    "Marco Rodríguez Badilla",
		Site:         "https://www.tse.go.cr/fichas/candidaturas/P/p-PEL",
		Plan:         "PEL.pdf",
	},
	{
		Abbreviation: "PEN",
		Name:         "Partido Esperanza Nacional",
		Candidate:    "Claudio Alpízar Otoya",
		Site:         "https://www.tse.go.cr/fichas/candidaturas/P/p-PEN",
		Plan:         "PEN.pdf",
	},
	{
		Abbreviation: "PIN",
		Name:         "Partido Integración Nacional",
		Candidate:    "Luis Amador Jiménez",
		Site:         "https://www.tse.go.cr/fichas/candidaturas/P/p-PIN",
		Plan:         "PIN.pdf",
	},
	{
		Abbreviation: "PJSC",
		Name:         "Partido Justicia Social Costarricense",
		Candidate:    "Walter Rubén Hernández Juárez",
		Site:         "https://www.tse.go.cr/fichas/candidaturas/P/p-PJSC",
		Plan:         "PJSC.pdf",
	},
	{
		Abbreviation: "PLN",
		Name:         "Partido Liberación Nacional",
		Candidate:    "Álvaro Ramos Chaves",
		Site:         "https://www.tse.go.cr/fichas/candidaturas/P/p-PLN",
		Plan:         "PLN.pdf",
	},
	{
		Abbreviation: "PLP",
		Name:         "Partido Liberal Progresista",
		Candidate:    "Eliecer Feinzaig Mintz",
		Site:         "https://www.tse.go.cr/fichas/candidaturas/P/p-PLP",
		Plan:         "PLP.pdf",
	},
	{
		Abbreviation: "PNG",
		Name:         "Partido Nueva Generación",
		Candidate:    "Fernando Zamora Castellanos",
		Site:         "https://www.tse.go.cr/fichas/candidaturas/P/p-PNG",
		Plan:         "PNG.pdf",
	},
	{
		Abbreviation: "PNR",
		Name:         "Partido Nueva República",
		Candidate:    "Fabricio Alvarado Muñoz",
		Site:         "https://www.tse.go.cr/fichas/candidaturas/P/p-PNR",
		Plan:         "PNR.pdf",
	},
	{
		Abbreviation: "PPSO",
		Name:         "Partido Pueblo Soberano",
		Candidate:    "Laura Fernández Delgado",
		Site:         "https://www.tse.go.cr/fichas/candidaturas/P/p-PPSO",
		Plan:         "PPSO.pdf",
	},
	{
		Abbreviation: "PSD",
		Name:         "Partido Progreso Social Democrático",
		Candidate:    "Luz Mary Alpízar Loaiza",
		Site:         "https://www.tse.go.cr/fichas/candidaturas/P/p-PSD",
		Plan:         "PSD.pdf",
	},
	{
		Abbreviation: "PUCD",
		Name:         "Partido Unión Costarricense Democrática",
		Candidate:    "Boris Molina Acevedo",
		Site:         "https://www.tse.go.cr/fichas/candidaturas/P/p-PUCD",
		Plan:         "PUCD.pdf",
	},
	{
		Abbreviation: "PUSC",
		Name:         "Partido Unidad Social Cristiana",
		Candidate:    "Juan Carlos Hidalgo Bogantes",
		Site:         "https://www.tse.go.cr/fichas/candidaturas/P/p-PUSC",
		Plan:         "PUSC.pdf",
	},
	{
		Abbreviation: "UP",
		Name:         "Unidos Podemos",
		Candidate:    "Natalia Díaz Quintana",
		Site:         "https://www.tse.go.cr/fichas/candidaturas/P/p-UP",
		Plan:         "UP.pdf",
	},
}

var (
	byAbbreviation   = map[string]Party{}
	candidateToParty = map[string]string{}
	nameToParty      = map[string]string{}
)

func init() {
	for _, p := range parties {
		byAbbreviation[p.Abbreviation] = p
		candidateToParty[p.Candidate] = p.Abbreviation
		nameToParty[p.Name] = p.Abbreviation
	}
}

// All returns every registered party in stable (alphabetical) order.
// Callers get a copy; the registry itself is immutable.
func All() []Party {
	out := make([]Party, len(parties))
	copy(out, parties)
	return out
}

// Count returns the number of registered parties.
func Count() int {
	return len(parties)
}

// ByAbbreviation looks up a party by its sigla, case-insensitively.
func ByAbbreviation(abbr string) (Party, bool) {
	p, ok := byAbbreviation[strings.ToUpper(strings.TrimSpace(abbr))]
	return p, ok
}

// ByCandidate returns the sigla for an exact candidate name.
func ByCandidate(candidate string) (string, bool) {
	abbr, ok := candidateToParty[candidate]
	return abbr, ok
}

// ByName returns the sigla for an exact full party name.
func ByName(name string) (string, bool) {
	abbr, ok := nameToParty[name]
	return abbr, ok
}

// IsRegistered reports whether a sigla belongs to the registry.
func IsRegistered(abbr string) bool {
	_, ok := ByAbbreviation(abbr)
	return ok
}

// Abbreviations returns the registered siglas in registry order.
func Abbreviations() []string {
	out := make([]string, 0, len(parties))
	for _, p := range parties {
		out = append(out, p.Abbreviation)
	}
	return out
}

// Candidates returns candidate name to sigla pairs in registry order.
func Candidates() map[string]string {
	out := make(map[string]string, len(candidateToParty))
	for k, v := range candidateToParty {
		out[k] = v
	}
	return out
}

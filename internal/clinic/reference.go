package clinic

import (
	"fmt"
	"strings"
)

type Location int

const (
	Bridgewater Location = iota + 1
	Edison
	Piscataway
	Princeton
	Morristown
	Clark
)

type locationInfo struct {
	city   string
	county string
	zip    string
}

var locations = map[Location]locationInfo{
	Bridgewater: {"BRIDGEWATER", "Somerset", "08807"},
	Edison:      {"EDISON", "Middlesex", "08817"},
	Piscataway:  {"PISCATAWAY", "Middlesex", "08854"},
	Princeton:   {"PRINCETON", "Mercer", "08542"},
	Morristown:  {"MORRISTOWN", "Morris", "07960"},
	Clark:       {"CLARK", "Union", "07066"},
}

func (l Location) City() string   { return locations[l].city }
func (l Location) County() string { return locations[l].county }
func (l Location) Zip() string    { return locations[l].zip }

func (l Location) String() string {
	info := locations[l]
	return fmt.Sprintf("%s, %s %s", info.city, info.county, info.zip)
}

type Specialty int

const (
	Family Specialty = iota + 1
	Pediatrician
	Allergist
)

var specialties = map[Specialty]struct {
	name   string
	charge int
}{
	Family:       {"FAMILY", 250},
	Pediatrician: {"PEDIATRICIAN", 300},
	Allergist:    {"ALLERGIST", 350},
}

// Charge is the flat fee in whole dollars billed per visit.
func (s Specialty) Charge() int { return specialties[s].charge }

func (s Specialty) String() string { return specialties[s].name }

type Provider int

const (
	Patel Provider = iota + 1
	Lim
	Zimnes
	Harper
	Kaur
	Taylor
	Ramesh
	Ceravolo
)

type providerInfo struct {
	name      string
	location  Location
	specialty Specialty
}

var providers = []providerInfo{
	Patel:    {"PATEL", Bridgewater, Family},
	Lim:      {"LIM", Bridgewater, Pediatrician},
	Zimnes:   {"ZIMNES", Clark, Family},
	Harper:   {"HARPER", Clark, Family},
	Kaur:     {"KAUR", Princeton, Allergist},
	Taylor:   {"TAYLOR", Piscataway, Pediatrician},
	Ramesh:   {"RAMESH", Morristown, Allergist},
	Ceravolo: {"CERAVOLO", Edison, Pediatrician},
}

// LookupProvider resolves a provider by last name, ignoring case.
func LookupProvider(name string) (Provider, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for p := Patel; p <= Ceravolo; p++ {
		if providers[p].name == name {
			return p, true
		}
	}
	return 0, false
}

// Providers returns the full provider table in declaration order.
func Providers() []Provider {
	out := make([]Provider, 0, len(providers)-1)
	for p := Patel; p <= Ceravolo; p++ {
		out = append(out, p)
	}
	return out
}

func (p Provider) Name() string         { return providers[p].name }
func (p Provider) Location() Location   { return providers[p].location }
func (p Provider) Specialty() Specialty { return providers[p].specialty }

func (p Provider) String() string {
	return fmt.Sprintf("%s, %s, %s", p.Name(), p.Location(), p.Specialty())
}

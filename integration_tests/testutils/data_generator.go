package testutils

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// TestDataGenerator provides methods to create test data for integration tests
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a new test data generator with optional seed
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}
	return &TestDataGenerator{
		faker: gofakeit.New(uint64(s)),
		seed:  s,
	}
}

// Player is a generated league member.
type Player struct {
	UserID      string
	DisplayName string
	Email       string
}

// Players returns n players with distinct user ids.
func (g *TestDataGenerator) Players(n int) []Player {
	out := make([]Player, n)
	for i := range out {
		out[i] = Player{
			UserID:      fmt.Sprintf("user-%d-%s", i, g.faker.LetterN(6)),
			DisplayName: g.faker.Name(),
			Email:       g.faker.Email(),
		}
	}
	return out
}

// Team is a generated club with a short code id.
type Team struct {
	ID   string
	Name string
}

// Teams returns n teams with distinct ids.
func (g *TestDataGenerator) Teams(n int) []Team {
	out := make([]Team, n)
	for i := range out {
		city := g.faker.City()
		out[i] = Team{
			ID:   fmt.Sprintf("T%02d%s", i, strings.ToUpper(g.faker.LetterN(2))),
			Name: city + " FC",
		}
	}
	return out
}

// LeagueName returns a plausible league name.
func (g *TestDataGenerator) LeagueName() string {
	return g.faker.Company() + " Survivor League"
}

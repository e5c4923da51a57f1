package seasonsim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/prixsix/engine/internal/domain/eventkey"
	"github.com/prixsix/engine/internal/domain/model"
)

// Drivers eligible for a top-six prediction.
var driverPool = []string{
	"VER", "NOR", "PIA", "LEC", "HAM", "RUS", "SAI", "ALO", "STR", "GAS",
	"OCO", "ALB", "HUL", "TSU", "LAW", "BOR", "ANT", "BEA", "COL", "HAD",
}

// Calendar names used to derive canonical event ids.
var calendarNames = []string{
	"Bahrain Grand Prix",
	"Saudi Arabian Grand Prix",
	"Australian Grand Prix",
	"Japanese Grand Prix",
	"Chinese Grand Prix",
	"Miami Grand Prix",
	"Emilia Romagna Grand Prix",
	"Monaco Grand Prix",
	"Canadian Grand Prix",
	"Spanish Grand Prix",
	"Austrian Grand Prix",
	"British Grand Prix",
	"Belgian Grand Prix",
	"Hungarian Grand Prix",
	"Dutch Grand Prix",
	"Italian Grand Prix",
	"Azerbaijan Grand Prix",
	"Singapore Grand Prix",
	"United States Grand Prix",
	"Mexico City Grand Prix",
	"Sao Paulo Grand Prix",
	"Las Vegas Grand Prix",
	"Qatar Grand Prix",
	"Abu Dhabi Grand Prix",
}

var teamAdjectives = []string{
	"Flying", "Sideways", "Late-Braking", "Midnight", "Chequered", "Boxless",
	"Undercut", "Slipstream", "Full-Wet", "Hairpin",
}

var teamNouns = []string{
	"Lions", "Apexes", "Gravels", "Chicanes", "Kerbs", "Pitwalls",
	"Tifosi", "Marshals", "Stewards", "Grid Penalties",
}

// generator produces deterministic season fixtures from a seeded RNG.
type generator struct {
	rng *rand.Rand
}

func newGenerator(seed int64) *generator {
	return &generator{rng: rand.New(rand.NewSource(seed))}
}

// eventIDs builds the session sequence for the season. Every fifth round
// carries a sprint alongside the grand prix, mirroring a real calendar.
func (g *generator) eventIDs(count int) []string {
	ids := make([]string, 0, count)
	for round := 0; len(ids) < count; round++ {
		name := calendarNames[round%len(calendarNames)]
		if round >= len(calendarNames) {
			name = fmt.Sprintf("%s %d", name, round/len(calendarNames)+2)
		}
		if round%5 == 4 && len(ids)+1 < count {
			id, err := eventkey.Normalize(name, eventkey.Sprint)
			if err == nil {
				ids = append(ids, id)
			}
		}
		id, err := eventkey.Normalize(name, eventkey.GrandPrix)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids[:count]
}

// teams registers the requested number of primary teams; every fourth owner
// also runs a secondary team.
func (g *generator) teams(count int) []model.Team {
	teams := make([]model.Team, 0, count+count/4)
	for i := 0; i < count; i++ {
		ownerID := uuid.NewString()
		name := fmt.Sprintf("%s %s",
			teamAdjectives[g.rng.Intn(len(teamAdjectives))],
			teamNouns[g.rng.Intn(len(teamNouns))],
		)
		teams = append(teams, model.Team{
			TeamID:  ownerID,
			Name:    name,
			OwnerID: ownerID,
		})
		if i%4 == 3 {
			teams = append(teams, model.Team{
				TeamID:    model.SecondaryTeamID(ownerID),
				Name:      name + " II",
				OwnerID:   ownerID,
				Secondary: true,
			})
		}
	}
	return teams
}

// topSix draws a random six-driver order from the pool.
func (g *generator) topSix() []string {
	picks := g.rng.Perm(len(driverPool))[:model.SlotCount]
	order := make([]string, model.SlotCount)
	for i, p := range picks {
		order[i] = driverPool[p]
	}
	return order
}

// prediction builds a stored prediction for one team and event.
func (g *generator) prediction(teamID, eventID string, submittedAt time.Time) model.Prediction {
	return model.Prediction{
		TeamID:      teamID,
		EventID:     eventID,
		Slots:       g.topSix(),
		SubmittedAt: submittedAt,
	}
}

// skips reports whether a team sits out this event.
func (g *generator) skips(rate float64) bool {
	return g.rng.Float64() < rate
}

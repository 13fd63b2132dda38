// Package synth generates plausible venue snapshots for demos, load tests
// and seeding development databases.
package synth

import (
	"math/rand"
	"time"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"

	"github.com/dshills/venuetrust/internal/trust"
)

const (
	maxReviews   = 40
	maxIncidents = 6
	historyDays  = 730
)

var methods = []string{
	string(trust.MethodOwnerAttested),
	string(trust.MethodCommunity),
	string(trust.MethodHealthInspection),
	string(trust.MethodThirdPartyAudit),
}

var severities = []string{
	string(trust.SeverityMild),
	string(trust.SeverityModerate),
	string(trust.SeveritySevere),
}

// Generator produces snapshots from a seeded faker. Two generators with the
// same seed produce the same snapshots apart from venue IDs.
type Generator struct {
	fake faker.Faker
}

// New creates a generator seeded with seed.
func New(seed int64) *Generator {
	return &Generator{fake: faker.NewWithSeed(rand.NewSource(seed))}
}

// Batch returns n snapshots evaluated at now.
func (g *Generator) Batch(n int, now time.Time) []trust.Snapshot {
	out := make([]trust.Snapshot, n)
	for i := range out {
		out[i] = g.Venue(now)
	}
	return out
}

// Venue returns one snapshot with up to two years of history before now.
// The snapshot pins AsOf to now.
func (g *Generator) Venue(now time.Time) trust.Snapshot {
	now = now.UTC().Truncate(time.Second)
	created := now.AddDate(0, 0, -g.fake.IntBetween(30, historyDays+365))
	asOf := now

	s := trust.Snapshot{
		Venue: trust.Venue{
			ID:        cuid.New(),
			Name:      g.fake.Company().Name(),
			CreatedAt: created,
		},
		Verification: g.verification(created, now),
		Reviews:      []trust.Review{},
		Incidents:    []trust.Incident{},
		AsOf:         &asOf,
	}

	if g.chance(50) {
		t := g.between(maxTime(created, now.AddDate(0, 0, -60)), now)
		s.Venue.LastCheckIn = &t
	}

	start := maxTime(created, now.AddDate(0, 0, -historyDays))
	for i, n := 0, g.fake.IntBetween(0, maxReviews); i < n; i++ {
		s.Reviews = append(s.Reviews, g.review(start, now))
	}
	for i, n := 0, g.fake.IntBetween(0, maxIncidents); i < n; i++ {
		s.Incidents = append(s.Incidents, g.incident(start, now))
	}
	return s
}

func (g *Generator) verification(created, now time.Time) trust.VerificationRecord {
	// A quarter of venues have never been verified.
	if g.chance(25) {
		return trust.VerificationRecord{VerificationMethod: trust.MethodNone}
	}

	verified := g.between(created, now)
	v := trust.VerificationRecord{
		ProfessionalScore:  g.fake.IntBetween(10, trust.MaxProfessionalScore),
		VerificationMethod: trust.VerificationMethod(g.fake.RandomStringElement(methods)),
		LastVerifiedAt:     &verified,
	}

	var by string
	switch g.fake.IntBetween(0, 2) {
	case 0:
		by = g.fake.Person().Name()
	case 1:
		by = g.fake.Internet().Email()
	default:
		by = g.fake.Company().Name()
	}
	v.VerifiedBy = &by

	if g.chance(30) {
		responded := g.between(created, now)
		v.HasOwnerResponse = true
		v.OwnerResponseDate = &responded
	}
	return v
}

func (g *Generator) review(start, now time.Time) trust.Review {
	r := trust.Review{
		HadReaction:        g.chance(15),
		IsVerifiedReviewer: g.chance(20),
		FoodRating:         g.fake.IntBetween(1, 5),
		CreatedAt:          g.between(start, now),
	}
	if r.HadReaction {
		r.SafetyRating = g.fake.IntBetween(1, 3)
	} else {
		r.SafetyRating = g.fake.IntBetween(3, 5)
	}
	return r
}

func (g *Generator) incident(start, now time.Time) trust.Incident {
	return trust.Incident{
		Severity:            trust.Severity(g.fake.RandomStringElement(severities)),
		ReportedAt:          g.between(start, now),
		IsResolved:          g.chance(60),
		VerifiedByModerator: g.chance(40),
	}
}

// chance reports true with the given percent probability.
func (g *Generator) chance(percent int) bool {
	return g.fake.IntBetween(1, 100) <= percent
}

// between returns a second-resolution UTC time in [lo, hi].
func (g *Generator) between(lo, hi time.Time) time.Time {
	span := int(hi.Sub(lo) / time.Second)
	if span <= 0 {
		return lo
	}
	return lo.Add(time.Duration(g.fake.IntBetween(0, span)) * time.Second).UTC()
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

package main

import (
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/hackgods/clinic-scheduling/internal/clinic"
)

const horizonMonths = 6

type patient struct {
	FirstName string
	LastName  string
	DOB       string
}

// booking is what a client must send back to find an appointment again.
type booking struct {
	Date    string
	Slot    string
	Patient patient
}

type opKind int

const (
	opBook opKind = iota
	opReschedule
	opCancel
	opList
	opBill
)

func newPatients(f *gofakeit.Faker, n int) []patient {
	from := time.Date(1940, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2020, time.December, 31, 0, 0, 0, 0, time.UTC)

	out := make([]patient, n)
	for i := range out {
		out[i] = patient{
			FirstName: f.FirstName(),
			LastName:  f.LastName(),
			DOB:       clinic.DateOf(f.DateRange(from, to)).String(),
		}
	}
	return out
}

// bookingDate picks a weekday after today and inside the booking horizon.
func bookingDate(f *gofakeit.Faker, today clinic.Date) clinic.Date {
	start := today.Time().AddDate(0, 0, 1)
	end := today.AddMonths(horizonMonths).Time()
	for {
		d := clinic.DateOf(f.DateRange(start, end))
		if !d.IsWeekend() && d.After(today) {
			return d
		}
	}
}

func randomSlot(f *gofakeit.Faker) string {
	return strconv.Itoa(f.Number(1, clinic.SlotCount))
}

func randomProvider(f *gofakeit.Faker) string {
	providers := clinic.Providers()
	return providers[f.Number(0, len(providers)-1)].Name()
}

// pickOp chooses an operation with the given share of bookings; the rest is
// split between changes and reads.
func pickOp(f *gofakeit.Faker, bookingRatio float64) opKind {
	r := f.Float64()
	switch {
	case r < bookingRatio:
		return opBook
	case r < bookingRatio+(1-bookingRatio)*0.25:
		return opReschedule
	case r < bookingRatio+(1-bookingRatio)*0.5:
		return opCancel
	case r < bookingRatio+(1-bookingRatio)*0.85:
		return opList
	default:
		return opBill
	}
}

type bookingPool struct {
	mu       sync.Mutex
	bookings []booking
}

func (p *bookingPool) add(b booking) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bookings = append(p.bookings, b)
}

// take removes and returns a random booking.
func (p *bookingPool) take(rng *rand.Rand) (booking, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.bookings) == 0 {
		return booking{}, false
	}
	i := rng.Intn(len(p.bookings))
	b := p.bookings[i]
	p.bookings[i] = p.bookings[len(p.bookings)-1]
	p.bookings = p.bookings[:len(p.bookings)-1]
	return b, true
}

func (p *bookingPool) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.bookings)
}

// scriptGenerator produces command lines for the console scheduler. It
// assumes every booking it emits succeeds, so some follow-up C and R lines
// will name appointments that were rejected.
type scriptGenerator struct {
	f            *gofakeit.Faker
	rng          *rand.Rand
	today        clinic.Date
	patients     []patient
	pool         bookingPool
	bookingRatio float64
	noiseRatio   float64
}

func newScriptGenerator(seed uint64, today clinic.Date, patients []patient, bookingRatio, noiseRatio float64) *scriptGenerator {
	return &scriptGenerator{
		f:            gofakeit.New(seed),
		rng:          rand.New(rand.NewSource(int64(seed))),
		today:        today,
		patients:     patients,
		bookingRatio: bookingRatio,
		noiseRatio:   noiseRatio,
	}
}

func (g *scriptGenerator) Script(n int) []string {
	lines := make([]string, 0, n+1)
	for range n {
		lines = append(lines, g.next())
	}
	return append(lines, "Q")
}

func (g *scriptGenerator) next() string {
	if g.f.Float64() < g.noiseRatio {
		return g.noise()
	}

	switch pickOp(g.f, g.bookingRatio) {
	case opReschedule:
		if b, ok := g.pool.take(g.rng); ok {
			newSlot := randomSlot(g.f)
			g.pool.add(booking{Date: b.Date, Slot: newSlot, Patient: b.Patient})
			return commandLine("R", b.Date, b.Slot, b.Patient, newSlot)
		}
	case opCancel:
		if b, ok := g.pool.take(g.rng); ok {
			return commandLine("C", b.Date, b.Slot, b.Patient, "x")
		}
	case opList:
		return []string{"PA", "PP", "PL"}[g.f.Number(0, 2)]
	case opBill:
		return "PS"
	}
	return g.book()
}

func (g *scriptGenerator) book() string {
	b := booking{
		Date:    bookingDate(g.f, g.today).String(),
		Slot:    randomSlot(g.f),
		Patient: g.patients[g.f.Number(0, len(g.patients)-1)],
	}
	g.pool.add(b)
	return commandLine("S", b.Date, b.Slot, b.Patient, randomProvider(g.f))
}

// noise emits a line the scheduler must reject.
func (g *scriptGenerator) noise() string {
	p := g.patients[g.f.Number(0, len(g.patients)-1)]
	date := bookingDate(g.f, g.today).String()
	switch g.f.Number(0, 4) {
	case 0:
		return commandLine("S", date, randomSlot(g.f), p, "HOUSE")
	case 1:
		return commandLine("S", date, "9", p, randomProvider(g.f))
	case 2:
		return commandLine("S", g.today.AddMonths(horizonMonths+1).String(), randomSlot(g.f), p, randomProvider(g.f))
	case 3:
		return "X," + date
	default:
		return "S," + date + "," + randomSlot(g.f)
	}
}

func commandLine(cmd, date, slot string, p patient, last string) string {
	return strings.Join([]string{cmd, date, slot, p.FirstName, p.LastName, p.DOB, last}, ",")
}

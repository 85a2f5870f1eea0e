package command

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-scheduling/internal/appointment"
)

func fixedNow() time.Time {
	return time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)
}

func newTestProcessor() (*Processor, *bytes.Buffer) {
	var out bytes.Buffer
	svc := appointment.NewService(nil, nil, nil)
	return NewProcessor(svc, &out, fixedNow), &out
}

func run(t *testing.T, script string) string {
	t.Helper()
	p, out := newTestProcessor()
	require.NoError(t, p.Run(context.Background(), strings.NewReader(script)))
	return out.String()
}

func TestEndToEndBookRescheduleCancel(t *testing.T) {
	got := run(t, strings.Join([]string{
		"S,6/16/2025,1,John,Doe,1/1/1990,Patel",
		"S,6/16/2025,1,John,Doe,1/1/1990,Patel",
		"R,6/16/2025,1,John,Doe,1/1/1990,2",
		"C,6/16/2025,2,John,Doe,1/1/1990,x",
		"PS",
		"Q",
	}, "\n"))

	want := strings.Join([]string{
		"Scheduler is running.",
		"",
		"6/16/2025 09:00 AM John Doe 1/1/1990 [PATEL, BRIDGEWATER, Somerset 08807, FAMILY] booked.",
		"John Doe 1/1/1990 has an existing appointment at the same time slot.",
		"Rescheduled to 6/16/2025 10:45 AM John Doe 1/1/1990 [PATEL, BRIDGEWATER, Somerset 08807, FAMILY]",
		"6/16/2025 10:45 AM John Doe 1/1/1990 has been canceled.",
		"",
		"** Billing statement ordered by patient **",
		"** end of list **",
		"Scheduler terminated.",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestScheduleErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"unknown provider", "S,6/16/2025,1,John,Doe,1/1/1990,House", "House - provider doesn't exist."},
		{"bad slot", "S,6/16/2025,9,John,Doe,1/1/1990,Patel", "9 is not a valid time slot."},
		{"invalid dob", "S,6/16/2025,1,John,Doe,2/30/1990,Patel", "Patient dob: 2/30/1990 is not a valid calendar date."},
		{"future dob", "S,6/16/2025,1,John,Doe,1/15/2025,Patel", "Patient dob: 1/15/2025 is today or a date after today."},
		{"invalid date", "S,4/31/2025,1,John,Doe,1/1/1990,Patel", "Appointment date: 4/31/2025 is not a valid calendar date."},
		{"today", "S,1/15/2025,1,John,Doe,1/1/1990,Patel", "Appointment date: 1/15/2025 is today or a date before today."},
		{"horizon", "S,7/16/2025,1,John,Doe,1/1/1990,Patel", "Appointment date: 7/16/2025 is not within six months."},
		{"saturday", "S,6/14/2025,1,John,Doe,1/1/1990,Patel", "Appointment date: 6/14/2025 is Saturday or Sunday."},
		{"short line", "S,6/16/2025,1,John,Doe,1/1/1990", "Invalid command format!"},
		{"malformed date", "S,June 16,1,John,Doe,1/1/1990,Patel", "Invalid command format!"},
		{"unknown command", "X,1", "Invalid command!"},
		{"lowercase command", "pa", "Invalid command!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, out := newTestProcessor()
			quit := p.Execute(context.Background(), tt.line)
			assert.False(t, quit)
			assert.Equal(t, tt.want+"\n", out.String())
		})
	}
}

func TestProviderUnavailableMessage(t *testing.T) {
	p, out := newTestProcessor()
	ctx := context.Background()

	p.Execute(ctx, "S,6/16/2025,1,John,Doe,1/1/1990,Patel")
	out.Reset()

	p.Execute(ctx, "S,6/16/2025,1,Jane,Doe,2/2/1992,patel")
	assert.Equal(t, "[PATEL, BRIDGEWATER, Somerset 08807, FAMILY] is not available at slot 1.\n", out.String())

	p.Execute(ctx, "S,6/16/2025,3,Jane,Doe,2/2/1992,patel")
	out.Reset()
	p.Execute(ctx, "R,6/16/2025,3,Jane,Doe,2/2/1992,1")
	assert.Equal(t, "[PATEL, BRIDGEWATER, Somerset 08807, FAMILY] is not available at slot 1.\n", out.String())
}

func TestCancelAndRescheduleLookups(t *testing.T) {
	p, out := newTestProcessor()
	ctx := context.Background()

	p.Execute(ctx, "C,6/16/2025,1,John,Doe,1/1/1990,x")
	assert.Equal(t, "6/16/2025 09:00 AM John Doe 1/1/1990 does not exist.\n", out.String())

	out.Reset()
	p.Execute(ctx, "R,6/16/2025,4,John,Doe,1/1/1990,2")
	assert.Equal(t, "6/16/2025 01:30 PM John Doe 1/1/1990 does not exist.\n", out.String())

	out.Reset()
	p.Execute(ctx, "C,6/16/2025,8,John,Doe,1/1/1990,x")
	assert.Equal(t, "8 is not a valid time slot.\n", out.String())

	p.Execute(ctx, "S,6/16/2025,1,John,Doe,1/1/1990,Patel")
	out.Reset()
	p.Execute(ctx, "R,6/16/2025,1,John,Doe,1/1/1990,0")
	assert.Equal(t, "0 is not a valid time slot.\n", out.String())

	out.Reset()
	p.Execute(ctx, "C,6/16/2025,1,John,Doe,1/1/1990")
	assert.Equal(t, "Invalid command format!\n", out.String())
}

func TestListings(t *testing.T) {
	got := run(t, strings.Join([]string{
		"PA",
		"S,6/17/2025,1,John,Doe,1/1/1990,Patel",
		"S,6/16/2025,4,Ann,Adams,3/3/1980,Kaur",
		"S,6/16/2025,2,John,Doe,1/1/1990,Ceravolo",
		"",
		"PA",
		"PP",
		"PL",
		"Q",
	}, "\n"))

	patel := "6/17/2025 09:00 AM John Doe 1/1/1990 [PATEL, BRIDGEWATER, Somerset 08807, FAMILY]"
	kaur := "6/16/2025 01:30 PM Ann Adams 3/3/1980 [KAUR, PRINCETON, Mercer 08542, ALLERGIST]"
	ceravolo := "6/16/2025 10:45 AM John Doe 1/1/1990 [CERAVOLO, EDISON, Middlesex 08817, PEDIATRICIAN]"

	want := strings.Join([]string{
		"Scheduler is running.",
		"",
		"The schedule calendar is empty.",
		patel + " booked.",
		kaur + " booked.",
		ceravolo + " booked.",
		"",
		"** Appointments ordered by date/time/provider **",
		ceravolo, kaur, patel,
		"** end of list **",
		"",
		"** Appointments ordered by patient/date/time **",
		kaur, ceravolo, patel,
		"** end of list **",
		"",
		"** Appointments ordered by county/date/time **",
		kaur, ceravolo, patel,
		"** end of list **",
		"Scheduler terminated.",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestBillingStatements(t *testing.T) {
	p, out := newTestProcessor()
	ctx := context.Background()

	for _, line := range []string{
		"S,6/16/2025,1,John,Doe,1/1/1990,Kaur",
		"S,6/16/2025,2,John,Doe,1/1/1990,Kaur",
		"S,6/16/2025,3,John,Doe,1/1/1990,Ramesh",
		"S,6/16/2025,4,John,Doe,1/1/1990,Kaur",
		"S,6/17/2025,1,Ann,Adams,3/3/1980,Lim",
	} {
		p.Execute(ctx, line)
	}
	out.Reset()

	p.Execute(ctx, "PS")
	assert.Equal(t, strings.Join([]string{
		"",
		"** Billing statement ordered by patient **",
		"(1) Ann Adams 3/3/1980 [amount due: $300.00]",
		"(2) John Doe 1/1/1990 [amount due: $1,400.00]",
		"** end of list **",
		"",
	}, "\n"), out.String())
}

func TestRunStopsAtQuitOrEOF(t *testing.T) {
	got := run(t, "Q\nS,6/16/2025,1,John,Doe,1/1/1990,Patel\n")
	assert.Equal(t, "Scheduler is running.\n\nScheduler terminated.\n", got)

	got = run(t, "\n\n")
	assert.Equal(t, "Scheduler is running.\n\n", got)
}

func TestExecReportsQuit(t *testing.T) {
	p, _ := newTestProcessor()

	quit, err := p.Exec(context.Background(), strings.NewReader("PA\nQ\n"))
	require.NoError(t, err)
	assert.True(t, quit)

	quit, err = p.Exec(context.Background(), strings.NewReader("PA\n"))
	require.NoError(t, err)
	assert.False(t, quit)
}

func TestExecHonoursCancelledContext(t *testing.T) {
	p, _ := newTestProcessor()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Exec(ctx, strings.NewReader("PA\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOversizeLineIsRejectedAndLoopContinues(t *testing.T) {
	got := run(t, strings.Join([]string{
		strings.Repeat("Z", 70<<10),
		"S,6/16/2025,1,John,Doe,1/1/1990,Patel",
		"Q",
	}, "\n"))

	assert.Equal(t, strings.Join([]string{
		"Scheduler is running.",
		"",
		"Invalid command format!",
		"6/16/2025 09:00 AM John Doe 1/1/1990 [PATEL, BRIDGEWATER, Somerset 08807, FAMILY] booked.",
		"Scheduler terminated.",
		"",
	}, "\n"), got)
}

func TestLineAtLimitIsProcessed(t *testing.T) {
	p, out := newTestProcessor()

	line := "PA" + strings.Repeat(" ", MaxLineBytes-2)
	quit, err := p.Exec(context.Background(), strings.NewReader(line+"\nQ\n"))
	require.NoError(t, err)
	assert.True(t, quit)
	assert.Equal(t, "The schedule calendar is empty.\nScheduler terminated.\n", out.String())
}

package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hackgods/clinic-scheduling/internal/appointment"
	"github.com/hackgods/clinic-scheduling/internal/clinic"
)

var (
	ErrInvalidCommand       = errors.New("invalid command")
	ErrInvalidCommandFormat = errors.New("invalid command format")
)

// Scheduler is the engine surface the command loop drives.
type Scheduler interface {
	Schedule(ctx context.Context, req appointment.ScheduleRequest, today clinic.Date) (*appointment.Appointment, error)
	Cancel(ctx context.Context, req appointment.CancelRequest) (*appointment.Appointment, error)
	Reschedule(ctx context.Context, req appointment.RescheduleRequest) (*appointment.Appointment, error)
	List(ctx context.Context, order appointment.SortOrder) ([]appointment.Appointment, error)
	Bill(ctx context.Context) ([]appointment.Statement, error)
}

// bookingTokens is the exact token count of S, C and R lines.
const bookingTokens = 7

// Processor reads comma-separated command lines, runs them against a
// Scheduler and writes human-readable results.
type Processor struct {
	svc     Scheduler
	out     io.Writer
	now     func() time.Time
	printer *message.Printer
}

// NewProcessor returns a Processor writing to out. now is sampled once per
// S command to decide what "today" is; nil means time.Now.
func NewProcessor(svc Scheduler, out io.Writer, now func() time.Time) *Processor {
	if now == nil {
		now = time.Now
	}
	return &Processor{
		svc:     svc,
		out:     out,
		now:     now,
		printer: message.NewPrinter(language.English),
	}
}

// Run prints the start banner and processes in until Q or end of input.
func (p *Processor) Run(ctx context.Context, in io.Reader) error {
	p.println("Scheduler is running.")
	p.println()
	_, err := p.Exec(ctx, in)
	return err
}

// MaxLineBytes bounds a single command line. Longer lines are rejected as
// malformed and the loop carries on with the next one.
const MaxLineBytes = 4 << 10

// Exec processes every line of in. It reports whether a Q command ended it.
func (p *Processor) Exec(ctx context.Context, in io.Reader) (bool, error) {
	reader := bufio.NewReaderSize(in, MaxLineBytes)
	for {
		line, tooLong, err := readLine(reader)
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if err := ctx.Err(); err != nil {
			return false, err
		}

		if tooLong {
			p.println("Invalid command format!")
			log.Debug().
				Str("outcome", outcome(ErrInvalidCommandFormat)).
				Msg("command line too long")
			continue
		}
		if p.Execute(ctx, line) {
			return true, nil
		}
	}
}

// readLine returns the next line without its terminator. A line over
// MaxLineBytes is drained and reported as tooLong.
func readLine(r *bufio.Reader) (line string, tooLong bool, err error) {
	var buf []byte
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			return "", false, err
		}
		if !tooLong {
			if len(buf)+len(chunk) > MaxLineBytes {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return string(buf), tooLong, nil
		}
	}
}

// Execute runs a single line and reports whether it was Q.
func (p *Processor) Execute(ctx context.Context, line string) (quit bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	tokens := strings.Split(line, ",")
	for i := range tokens {
		tokens[i] = strings.TrimSpace(tokens[i])
	}

	var err error
	switch tokens[0] {
	case "S":
		err = p.schedule(ctx, tokens)
	case "C":
		err = p.cancel(ctx, tokens)
	case "R":
		err = p.reschedule(ctx, tokens)
	case "PA":
		err = p.list(ctx, tokens, appointment.ByAppointment)
	case "PP":
		err = p.list(ctx, tokens, appointment.ByPatient)
	case "PL":
		err = p.list(ctx, tokens, appointment.ByLocation)
	case "PS":
		err = p.bill(ctx, tokens)
	case "Q":
		if err = expectTokens(tokens, 1); err == nil {
			p.println("Scheduler terminated.")
			return true
		}
	default:
		err = ErrInvalidCommand
	}

	if errors.Is(err, ErrInvalidCommand) {
		p.println("Invalid command!")
	} else if errors.Is(err, ErrInvalidCommandFormat) {
		p.println("Invalid command format!")
	}

	log.Debug().
		Str("command", tokens[0]).
		Str("outcome", outcome(err)).
		Msg("command processed")
	return false
}

func (p *Processor) schedule(ctx context.Context, tokens []string) error {
	if err := expectTokens(tokens, bookingTokens); err != nil {
		return err
	}
	date, dob, err := parseDates(tokens[1], tokens[5])
	if err != nil {
		return err
	}

	req := appointment.ScheduleRequest{
		Date:      date,
		Slot:      tokens[2],
		FirstName: tokens[3],
		LastName:  tokens[4],
		DOB:       dob,
		Provider:  tokens[6],
	}
	appt, err := p.svc.Schedule(ctx, req, clinic.DateOf(p.now()))
	if err != nil {
		p.println(scheduleError(err, req, tokens[2]))
		return err
	}

	p.printf("%s booked.\n", appt)
	return nil
}

func (p *Processor) cancel(ctx context.Context, tokens []string) error {
	req, slot, err := lookupRequest(tokens)
	if err != nil {
		if errors.Is(err, appointment.ErrInvalidTimeslot) {
			p.printf("%s is not a valid time slot.\n", tokens[2])
		}
		return err
	}

	appt, err := p.svc.Cancel(ctx, req)
	if err != nil {
		p.println(lookupError(err, req, slot))
		return err
	}

	p.printf("%s %s %s has been canceled.\n", appt.Date, appt.Timeslot, appt.Patient)
	return nil
}

func (p *Processor) reschedule(ctx context.Context, tokens []string) error {
	req, slot, err := lookupRequest(tokens)
	if err != nil {
		if errors.Is(err, appointment.ErrInvalidTimeslot) {
			p.printf("%s is not a valid time slot.\n", tokens[2])
		}
		return err
	}

	appt, err := p.svc.Reschedule(ctx, appointment.RescheduleRequest{
		CancelRequest: req,
		NewSlot:       tokens[6],
	})
	if err != nil {
		p.println(rescheduleError(err, req, slot, tokens[6]))
		return err
	}

	p.printf("Rescheduled to %s\n", appt)
	return nil
}

func (p *Processor) list(ctx context.Context, tokens []string, order appointment.SortOrder) error {
	if err := expectTokens(tokens, 1); err != nil {
		return err
	}

	appts, err := p.svc.List(ctx, order)
	if errors.Is(err, appointment.ErrCalendarEmpty) {
		p.println("The schedule calendar is empty.")
		return nil
	}
	if err != nil {
		p.println(engineError(err))
		return err
	}

	p.println()
	p.printf("** Appointments ordered by %s **\n", listTitles[order])
	for _, a := range appts {
		p.println(a.String())
	}
	p.println("** end of list **")
	return nil
}

var listTitles = map[appointment.SortOrder]string{
	appointment.ByAppointment: "date/time/provider",
	appointment.ByPatient:     "patient/date/time",
	appointment.ByLocation:    "county/date/time",
}

func (p *Processor) bill(ctx context.Context, tokens []string) error {
	if err := expectTokens(tokens, 1); err != nil {
		return err
	}

	statements, err := p.svc.Bill(ctx)
	if err != nil {
		p.println(engineError(err))
		return err
	}

	p.println()
	p.println("** Billing statement ordered by patient **")
	for i, st := range statements {
		p.printf("(%d) %s [amount due: $%s]\n", i+1, st.Patient, p.money(st.Charge))
	}
	p.println("** end of list **")
	return nil
}

func (p *Processor) money(dollars int) string {
	return p.printer.Sprintf("%.2f", float64(dollars))
}

func (p *Processor) println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

func (p *Processor) printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

func expectTokens(tokens []string, n int) error {
	if len(tokens) != n {
		return fmt.Errorf("%w: %s expects %d tokens, got %d", ErrInvalidCommandFormat, tokens[0], n, len(tokens))
	}
	return nil
}

func parseDates(dateToken, dobToken string) (clinic.Date, clinic.Date, error) {
	date, err := clinic.ParseDate(dateToken)
	if err != nil {
		return clinic.Date{}, clinic.Date{}, fmt.Errorf("%w: %w", ErrInvalidCommandFormat, err)
	}
	dob, err := clinic.ParseDate(dobToken)
	if err != nil {
		return clinic.Date{}, clinic.Date{}, fmt.Errorf("%w: %w", ErrInvalidCommandFormat, err)
	}
	return date, dob, nil
}

// lookupRequest builds the booking key shared by C and R lines. The seventh
// token is left to the caller.
func lookupRequest(tokens []string) (appointment.CancelRequest, clinic.Timeslot, error) {
	if err := expectTokens(tokens, bookingTokens); err != nil {
		return appointment.CancelRequest{}, 0, err
	}
	date, dob, err := parseDates(tokens[1], tokens[5])
	if err != nil {
		return appointment.CancelRequest{}, 0, err
	}
	slot, err := clinic.ParseTimeslot(tokens[2])
	if err != nil {
		return appointment.CancelRequest{}, 0, err
	}

	return appointment.CancelRequest{
		Date:      date,
		Slot:      tokens[2],
		FirstName: tokens[3],
		LastName:  tokens[4],
		DOB:       dob,
	}, slot, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCommand):
		return "invalid_command"
	case errors.Is(err, ErrInvalidCommandFormat):
		return "invalid_command_format"
	default:
		return appointment.ErrorCode(err)
	}
}

package clinic

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidTimeslot = errors.New("not a valid time slot")

// Timeslot is a 1-based ordinal into the fixed table of daily slots.
type Timeslot int

type clock struct {
	hour   int
	minute int
}

var timeslots = [...]clock{
	{9, 0},
	{10, 45},
	{11, 15},
	{13, 30},
	{15, 0},
	{16, 15},
}

// SlotCount is the number of appointment slots in a day.
const SlotCount = len(timeslots)

// ParseTimeslot resolves a 1-based slot token.
func ParseTimeslot(s string) (Timeslot, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeslot, s)
	}
	slot := Timeslot(n)
	if !slot.IsValid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeslot, s)
	}
	return slot, nil
}

// Timeslots returns every slot in daily order.
func Timeslots() []Timeslot {
	out := make([]Timeslot, SlotCount)
	for i := range out {
		out[i] = Timeslot(i + 1)
	}
	return out
}

func (t Timeslot) IsValid() bool {
	return t >= 1 && int(t) <= SlotCount
}

func (t Timeslot) Hour() int   { return timeslots[t-1].hour }
func (t Timeslot) Minute() int { return timeslots[t-1].minute }

// String renders the slot on a 12-hour clock, e.g. "01:30 PM".
func (t Timeslot) String() string {
	if !t.IsValid() {
		return fmt.Sprintf("Timeslot(%d)", int(t))
	}
	h := t.Hour()
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%02d:%02d %s", h12, t.Minute(), suffix)
}

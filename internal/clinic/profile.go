package clinic

import (
	"fmt"
	"strings"
)

// Profile identifies a patient. Two profiles are the same patient only when
// all three fields match exactly.
type Profile struct {
	FirstName string
	LastName  string
	DOB       Date
}

func NewProfile(firstName, lastName string, dob Date) Profile {
	return Profile{FirstName: firstName, LastName: lastName, DOB: dob}
}

// Compare orders by last name, first name, then date of birth.
func (p Profile) Compare(other Profile) int {
	if c := strings.Compare(p.LastName, other.LastName); c != 0 {
		return c
	}
	if c := strings.Compare(p.FirstName, other.FirstName); c != 0 {
		return c
	}
	return p.DOB.Compare(other.DOB)
}

func (p Profile) String() string {
	return fmt.Sprintf("%s %s %s", p.FirstName, p.LastName, p.DOB)
}

package entity

import (
	"strings"
	"time"
)

// Token is one enrolled token as the administrative inventory sees it.
//
// SeedEnc holds the sealed seed material; nothing in this package can open it
// and no code path may ever log it.
type Token struct {
	Serial        string
	Type          TokenType
	Assigned      bool
	Active        bool
	SeedEnc       []byte
	Counter       int64
	PeriodSeconds int64
	Digits        int
	Description   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TokenFilter narrows the candidate set of a search or listing.
//
// The zero value matches every token. Each constraint is conjunctive.
type TokenFilter struct {
	// Type restricts to one token type; TokenTypeUnknown means no constraint.
	Type TokenType

	// SerialContains is a case-sensitive substring match on the serial.
	SerialContains string

	// Assigned is the tri-state assignment constraint.
	Assigned AssignState
}

// Matches reports whether the token satisfies every constraint of the filter.
func (f TokenFilter) Matches(t Token) bool {
	if !f.Type.IsUnknown() && t.Type != f.Type {
		return false
	}

	if f.SerialContains != "" && !strings.Contains(t.Serial, f.SerialContains) {
		return false
	}

	switch f.Assigned {
	case AssignAssigned:
		if !t.Assigned {
			return false
		}
	case AssignUnassigned:
		if t.Assigned {
			return false
		}
	}

	return true
}

// MatchResult is the classified outcome of one serial search.
type MatchResult struct {
	Outcome MatchOutcome

	// Serial and Offset are set only when Outcome is MatchOutcomeFound.
	Serial string
	Offset int

	// Collisions lists the serials that all matched when Outcome is
	// MatchOutcomeAmbiguous, in candidate order.
	Collisions []string

	// Candidates is how many tokens survived the filter.
	Candidates int

	// Skipped is how many candidates were never verified because the caller
	// deadline expired.
	Skipped int
}

// TokenListFilterData carries listing constraints plus paging.
type TokenListFilterData struct {
	Filter TokenFilter
	Size   int32
	Page   int32
}

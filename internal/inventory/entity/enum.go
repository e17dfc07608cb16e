package entity

type TokenType int16

const (
	// TokenTypeUnknown is mean token type is not known / not set.
	TokenTypeUnknown TokenType = 0

	// TokenTypeHOTP mean the token derives codes from a persisted event counter.
	TokenTypeHOTP TokenType = 1

	// TokenTypeTOTP mean the token derives codes from the current time step.
	TokenTypeTOTP TokenType = 2
)

// TokenTypeFromString parses the lowercase type names used in the tokens table.
func TokenTypeFromString(str string) TokenType {
	switch str {
	case "hotp":
		return TokenTypeHOTP
	case "totp":
		return TokenTypeTOTP
	default:
		return TokenTypeUnknown
	}
}

func (tt TokenType) String() string {
	switch tt {
	case TokenTypeHOTP:
		return "hotp"
	case TokenTypeTOTP:
		return "totp"
	default:
		return "unknown"
	}
}

func (tt TokenType) IsUnknown() bool {
	switch tt {
	case TokenTypeHOTP, TokenTypeTOTP:
		return false
	default:
		return true
	}
}

// AssignState is the tri-state assignment constraint of a candidate filter.
type AssignState int16

const (
	// AssignAny matches tokens regardless of assignment.
	AssignAny AssignState = 0

	// AssignAssigned matches only tokens bound to a user.
	AssignAssigned AssignState = 1

	// AssignUnassigned matches only tokens not bound to any user.
	AssignUnassigned AssignState = 2
)

// AssignStateFromString parses "assigned" / "unassigned"; anything else is AssignAny.
func AssignStateFromString(str string) AssignState {
	switch str {
	case "assigned":
		return AssignAssigned
	case "unassigned":
		return AssignUnassigned
	default:
		return AssignAny
	}
}

func (as AssignState) String() string {
	switch as {
	case AssignAssigned:
		return "assigned"
	case AssignUnassigned:
		return "unassigned"
	default:
		return "any"
	}
}

// MatchOutcome is the result classification of a serial search.
type MatchOutcome int16

const (
	MatchOutcomeUnknown    MatchOutcome = 0
	MatchOutcomeFound      MatchOutcome = 1
	MatchOutcomeNotFound   MatchOutcome = 2
	MatchOutcomeAmbiguous  MatchOutcome = 3
	MatchOutcomeIncomplete MatchOutcome = 4
)

func (mo MatchOutcome) String() string {
	switch mo {
	case MatchOutcomeFound:
		return "found"
	case MatchOutcomeNotFound:
		return "not_found"
	case MatchOutcomeAmbiguous:
		return "ambiguous"
	case MatchOutcomeIncomplete:
		return "incomplete"
	default:
		return "unknown"
	}
}

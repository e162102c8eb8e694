package domain

// AccessLevel is the cosmetic access classification shown on a card.
type AccessLevel int

const (
	AccessNone AccessLevel = iota
	AccessLimited
	AccessFull
)

func (l AccessLevel) String() string {
	switch l {
	case AccessFull:
		return "Full"
	case AccessLimited:
		return "Limited"
	default:
		return "None"
	}
}

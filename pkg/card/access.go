package card

import "github.com/bulkexchange/accesscard/pkg/domain"

// Access is the evaluated access level and the hint shown next to it.
type Access struct {
	Level domain.AccessLevel
	Note  string
}

const (
	noteNoRegion = "Pick a region role to activate your card"
	noteFull     = "Full access: all markets unlocked"
	noteLimited  = "Limited access: add Lvl 2 or OG to unlock everything"
)

// EvaluateAccess classifies a card from its status flags and region.
// Verified alone is enough for Full; the bulker+verified clause is redundant
// but kept so the rule reads the same as the published card rules.
func EvaluateAccess(status map[domain.StatusKey]bool, region string) Access {
	if region == "" {
		return Access{Level: domain.AccessNone, Note: noteNoRegion}
	}

	verified := status[domain.StatusVerified]
	bulker := status[domain.StatusBulker]
	lvl2 := status[domain.StatusLvl2]
	og := status[domain.StatusOG]

	if verified || (bulker && (lvl2 || og)) || (bulker && verified) || (lvl2 && og && bulker) {
		return Access{Level: domain.AccessFull, Note: noteFull}
	}
	return Access{Level: domain.AccessLimited, Note: noteLimited}
}

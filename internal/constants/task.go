package constants

type Category string

const (
	CategoryPlumbing   Category = "plumbing"
	CategoryElectrical Category = "electrical"
	CategoryCarpentry  Category = "carpentry"
	CategoryPainting   Category = "painting"
	CategoryCleaning   Category = "cleaning"
	CategoryGardening  Category = "gardening"
	CategoryOther      Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryPlumbing, CategoryElectrical, CategoryCarpentry, CategoryPainting,
		CategoryCleaning, CategoryGardening, CategoryOther:
		return true
	}
	return false
}

// Scope decides who pays for a task.
type Scope string

const (
	ScopeShared      Scope = "shared"
	ScopePrivateUnit Scope = "private-unit"
)

func (s Scope) Valid() bool {
	return s == ScopeShared || s == ScopePrivateUnit
}

type VoteDecision string

const (
	VoteApprove VoteDecision = "approve"
	VoteReject  VoteDecision = "reject"
)

package constants

type Role string

const (
	RoleOwner   Role = "owner"
	RoleCouncil Role = "council"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleCouncil || r == RoleAdmin
}

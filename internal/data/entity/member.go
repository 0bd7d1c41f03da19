package entity

type MemberRole string

const (
	RoleMember  MemberRole = "member"
	RoleTrainer MemberRole = "trainer"
	RoleAdmin   MemberRole = "admin"
)

type Member struct {
	Base
	FullName string     `db:"full_name"`
	Email    string     `db:"email"`
	Phone    *string    `db:"phone"`
	Role     MemberRole `db:"role"`
	IsActive bool       `db:"is_active"`
}

package models

import "time"

type BoardRole string

const (
	RoleOwner  BoardRole = "owner"
	RoleWriter BoardRole = "writer"
	RoleReader BoardRole = "reader"
)

// roleRank orders roles so access checks can compare against a minimum
// required role: owner > writer > reader.
var roleRank = map[BoardRole]int{
	RoleReader: 1,
	RoleWriter: 2,
	RoleOwner:  3,
}

// Valid reports whether r is one of the known roles.
func (r BoardRole) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants at least the permissions of min.
func (r BoardRole) AtLeast(min BoardRole) bool {
	return roleRank[r] >= roleRank[min]
}

type BoardParticipant struct {
	BoardID   uint64    `gorm:"primarykey" json:"board"`
	UserID    uint64    `gorm:"primarykey" json:"user"`
	Role      BoardRole `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`

	// Relations
	Board Board `gorm:"foreignKey:BoardID" json:"-"`
	User  User  `gorm:"foreignKey:UserID" json:"-"`
}

package branch

import "time"

type Branch struct {
	ID        uint
	Name      string
	Address   string
	Phone     *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

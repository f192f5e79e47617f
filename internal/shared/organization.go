package shared

import "time"

// Organization is the tenant boundary. Every tenant-scoped row carries its id
// and every query predicate must include it.
type Organization struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	OwnerUserID int64      `json:"owner_user_id"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Disabled reports whether the organization is soft-disabled. Disabled
// organizations accept reads but no writes.
func (o *Organization) Disabled() bool {
	return o != nil && o.DeletedAt != nil
}

package domain

import "time"

// User anchors ownership for projects and tasks. ExternalID is the GitHub
// account id and never changes after the first login.
type User struct {
	ID         int64     `json:"id"`
	ExternalID string    `json:"external_id"`
	Name       *string   `json:"name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// New builds an unsaved user (ID assigned by the database on insert).
func New(externalID string, name *string) *User {
	now := time.Now()
	return &User{
		ExternalID: externalID,
		Name:       name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (u *User) IsNew() bool {
	return u.ID == 0
}

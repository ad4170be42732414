package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/tidytask/tidytask-backend/internal/apperr"
)

// DefaultColor is applied when a project is created without one.
const DefaultColor = "#3B82F6"

const maxNameLen = 255

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Project is a named container owned by exactly one user. Instances are
// treated as immutable: Update returns a fresh copy and never touches the
// receiver.
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Color       string    `json:"color"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// New builds an unsaved project (ID assigned by the database on insert).
// An empty color falls back to DefaultColor.
func New(name string, userID int64, description *string, color string) (*Project, error) {
	if color == "" {
		color = DefaultColor
	}

	now := time.Now()
	p := &Project{
		Name:        name,
		Description: description,
		Color:       color,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Update returns a copy with the non-nil fields applied and UpdatedAt
// refreshed. The owner never changes. Updating an unsaved project is an
// error: it has no identity to update yet.
func (p *Project) Update(name, description, color *string) (*Project, error) {
	if p.IsNew() {
		return nil, apperr.Validationf("cannot update unsaved project")
	}

	next := *p
	if name != nil {
		next.Name = *name
	}
	if description != nil {
		next.Description = description
	}
	if color != nil {
		next.Color = *color
	}
	next.UpdatedAt = time.Now()

	if err := next.validate(); err != nil {
		return nil, err
	}
	return &next, nil
}

func (p *Project) IsNew() bool {
	return p.ID == 0
}

func (p *Project) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperr.Validationf("project name cannot be empty")
	}
	if len(p.Name) > maxNameLen {
		return apperr.Validationf("project name cannot exceed %d characters", maxNameLen)
	}
	if p.Color != "" && !hexColorRe.MatchString(p.Color) {
		return apperr.Validationf("color must be a valid hex color")
	}
	return nil
}

package core

import (
	"fmt"
	"strings"
	"time"
)

type (
	// Category labels transactions. Name is unique per owner.
	Category struct {
		ID          string     `json:"category_id"`
		UserID      int64      `json:"-"`
		Name        string     `json:"name"`
		Description string     `json:"description,omitempty"`
		IconURL     string     `json:"icon_url,omitempty"`
		IsActive    bool       `json:"is_active"`
		CreatedAt   time.Time  `json:"created_at"`
		UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	}

	CategoryInput struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		IconURL     string `json:"icon_url"`
	}

	CategoryPatch struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		IconURL     *string `json:"icon_url"`
	}
)

func (in CategoryInput) Validate() error {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 100 {
		return fmt.Errorf("%w: name must be 1-100 characters", ErrValidation)
	}
	if len(in.Description) > 500 {
		return fmt.Errorf("%w: description too long (max 500 characters)", ErrValidation)
	}
	if len(in.IconURL) > 255 {
		return fmt.Errorf("%w: icon_url too long (max 255 characters)", ErrValidation)
	}
	return nil
}

func (p CategoryPatch) Apply(c *Category) error {
	applyString(p.Name, &c.Name)
	applyString(p.Description, &c.Description)
	applyString(p.IconURL, &c.IconURL)

	in := CategoryInput{Name: c.Name, Description: c.Description, IconURL: c.IconURL}
	return in.Validate()
}

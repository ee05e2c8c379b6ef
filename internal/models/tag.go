package models

import "time"

// Tag colors map onto the front end's badge palette.
const (
	TagColorPrimary   = "primary"
	TagColorSecondary = "secondary"
	TagColorSuccess   = "success"
	TagColorDanger    = "danger"
	TagColorWarning   = "warning"
	TagColorInfo      = "info"
	TagColorDark      = "dark"
)

var TagColors = []string{
	TagColorPrimary,
	TagColorSecondary,
	TagColorSuccess,
	TagColorDanger,
	TagColorWarning,
	TagColorInfo,
	TagColorDark,
}

func IsTagColor(color string) bool {
	for _, c := range TagColors {
		if c == color {
			return true
		}
	}
	return false
}

type Tag struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;size:30;not null"`
	Color       string    `json:"color" gorm:"size:20;not null"`
	CreatedByID uint      `json:"created_by_id" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateTagRequest struct {
	Name  string `json:"name" validate:"required,max=30"`
	Color string `json:"color" validate:"required,oneof=primary secondary success danger warning info dark"`
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Space groups branches inside a project. Each space owns independent
// catalogs per branch.
type Space struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ProjectID string    `gorm:"size:36;index" json:"project_id"`
	Name      string    `gorm:"size:255" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the default table name.
func (Space) TableName() string {
	return "spaces"
}

// Branch is a named, independently editable catalog instance within a space.
type Branch struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	SpaceID   string    `gorm:"size:36;index:idx_space_name,unique" json:"space_id"`
	Name      string    `gorm:"size:255;index:idx_space_name,unique" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the default table name.
func (Branch) TableName() string {
	return "branches"
}

// Translation is one (language, key) -> value row of a branch catalog.
// The unique index guarantees the catalog invariant at the store level.
type Translation struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	BranchID  string    `gorm:"size:36;index:idx_branch_lang_key,unique" json:"branch_id"`
	Language  string    `gorm:"size:16;index:idx_branch_lang_key,unique" json:"language"`
	Key       string    `gorm:"size:255;index:idx_branch_lang_key,unique" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the default table name.
func (Translation) TableName() string {
	return "translations"
}

// Migrate creates or updates the catalog tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Space{}, &Branch{}, &Translation{})
}

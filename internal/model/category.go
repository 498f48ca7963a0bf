package model

// Category groups tasks into a user-ordered section of the list view.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	SortOrder int    `gorm:"index"`
	Tasks     []Task `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

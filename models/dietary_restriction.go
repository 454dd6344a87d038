package models

// DietaryRestriction is a named dietary tag (e.g. "Vegan") shared by customers and reservations
type DietaryRestriction struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description *string `gorm:"size:250" json:"description"`
}

// TableName specifies the table name for the DietaryRestriction model
func (DietaryRestriction) TableName() string {
	return "dietary_restrictions"
}

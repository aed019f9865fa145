package model

// Group is a class of students. Tests are assigned to groups.
type Group struct {
	BaseModel
	Name        string `gorm:"size:50;not null;uniqueIndex" json:"name"`
	CreatedByID uint   `gorm:"index" json:"created_by_id"`
}

func (Group) TableName() string {
	return "groups"
}

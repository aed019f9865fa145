package model

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
)

// swagger:model User
type User struct {
	BaseModel
	Name     string   `gorm:"size:150;not null" json:"name"`
	Email    string   `gorm:"size:100;unique;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"size:10;default:'student'" json:"role"`
	GroupID  *uint    `gorm:"index" json:"group_id,omitempty"`
	Group    *Group   `json:"group,omitempty"`
}

func (User) TableName() string {
	return "users"
}

package model

// User is an operator account allowed to log in.
type User struct {
	ID       uint32 `gorm:"column:id;primaryKey;autoIncrement"`
	Username string `gorm:"column:username;type:VARCHAR2(50);not null;uniqueIndex:idx_user_username"`
	Password string `gorm:"column:password;type:VARCHAR2(60);not null"` // bcrypt hash

	BaseEntity
}

func (*User) TableName() string {
	return "app_user"
}

// NewUser expects an already hashed password.
func NewUser(username, passwordHash string) *User {
	return &User{
		Username: username,
		Password: passwordHash,
	}
}

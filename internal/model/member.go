package model

type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "ACTIVE"
	MemberStatusInactive MemberStatus = "INACTIVE"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// Member is a registered club member.
// BirthDate and EnrollmentDate are civil dates stored as YYYY-MM-DD.
type Member struct {
	ID uint32 `gorm:"column:id;primaryKey;autoIncrement"`

	FirstName      string       `gorm:"column:first_name;type:VARCHAR2(100);not null"`
	LastName       string       `gorm:"column:last_name;type:VARCHAR2(100);not null"`
	DNI            *string      `gorm:"column:dni;type:VARCHAR2(20);uniqueIndex:idx_member_dni"`
	Phone          *string      `gorm:"column:phone;type:VARCHAR2(30)"`
	Email          *string      `gorm:"column:email;type:VARCHAR2(255)"`
	Address        *string      `gorm:"column:address;type:VARCHAR2(255)"`
	Status         MemberStatus `gorm:"column:status;type:VARCHAR2(10);not null;default:ACTIVE"`
	Gender         Gender       `gorm:"column:gender;type:VARCHAR2(10);not null"`
	BirthDate      string       `gorm:"column:birth_date;type:VARCHAR2(10);not null"`
	EnrollmentDate string       `gorm:"column:enrollment_date;type:VARCHAR2(10);not null"`
	PhotoURL       *string      `gorm:"column:photo_url;type:VARCHAR2(500)"`

	BaseEntity
}

func (*Member) TableName() string {
	return "member"
}

func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

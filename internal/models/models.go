package models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"not null"                 json:"name"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`
	Photo        string `json:"photo,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Notes        string `json:"notes,omitempty"`

	Courses []Course `gorm:"many2many:user_courses" json:"courses,omitempty"`
}

type Course struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string  `gorm:"not null"                 json:"title"`
	Description string  `gorm:"not null"                 json:"description"`
	Instructor  string  `json:"instructor"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
}

type Lesson struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"not null"                 json:"title"`
	Description string `gorm:"not null"                 json:"description"`
	CourseID    uint   `gorm:"index;not null"           json:"course_id"`
	Content     string `json:"content,omitempty"`
}

type Topic struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"not null"                 json:"title"`
	Description string `gorm:"not null"                 json:"description"`
	LessonID    uint   `gorm:"index;not null"           json:"lesson_id"`
	Image       string `json:"image,omitempty"`
}

// CoursePreview is the reduced listing returned to non-admin callers.
type CoursePreview struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

package model

// Teacher 教师表（teachers）
type Teacher struct {
	TeacherID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"teacher_id"`
	Name      string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Email     *string `gorm:"type:varchar(200)"                              json:"email,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Teacher) TableName() string { return "teachers" }

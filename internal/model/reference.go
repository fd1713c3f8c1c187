package model

// ── 由外部 CRUD 模块维护的只读基础数据 ──

// Semester 学期表（semesters）
type Semester struct {
	SemesterID     string       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"semester_id"`
	AcademicYearID string       `gorm:"type:uuid;not null"                             json:"academic_year_id"`
	Term           SemesterTerm `gorm:"type:varchar(20);not null"                      json:"term"`
	Name           string       `gorm:"type:varchar(50);not null"                      json:"name"`
	BaseModel
}

func (Semester) TableName() string { return "semesters" }

// Program 专业表（programs）
type Program struct {
	ProgramID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"program_id"`
	Code      string `gorm:"type:varchar(20);not null"                      json:"code"`
	Name      string `gorm:"type:varchar(200);not null"                     json:"name"`
	BaseModel
}

func (Program) TableName() string { return "programs" }

// Level 年级表（levels）
type Level struct {
	LevelID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"level_id"`
	Name    LevelName `gorm:"type:varchar(20);not null"                      json:"name"`
	BaseModel
}

func (Level) TableName() string { return "levels" }

// IsFirstYear 年级名称精确等于 "First Year"
func (l *Level) IsFirstYear() bool {
	return l.Name == LevelFirstYear
}

// Section 班级表（sections）
type Section struct {
	SectionID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"section_id"`
	ProgramID string `gorm:"type:uuid;not null"                             json:"program_id"`
	LevelID   string `gorm:"type:uuid;not null"                             json:"level_id"`
	Name      string `gorm:"type:varchar(50);not null"                      json:"name"`
	BaseModel
}

func (Section) TableName() string { return "sections" }

// Classroom 教室表（classrooms）
type Classroom struct {
	ClassroomID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"classroom_id"`
	Name        string `gorm:"type:varchar(50);not null"                      json:"name"`
	Capacity    int    `gorm:"not null;default:0"                             json:"capacity"`
	BaseModel
}

func (Classroom) TableName() string { return "classrooms" }

package model

import "time"

// AcademicYear 学年表（academic_years）
// 是否为当前学年由 CurrentAcademicYear 指针决定，学年行本身不带激活标记
type AcademicYear struct {
	AcademicYearID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"academic_year_id"`
	Name           string    `gorm:"type:varchar(50);not null"                      json:"name"` // 2025-2026
	StartDate      time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate        time.Time `gorm:"type:date;not null"                             json:"end_date"`
	BaseModel
}

// TableName 指定表名
func (AcademicYear) TableName() string { return "academic_years" }

// CurrentAcademicYear 当前学年指针（current_academic_year，单行表）
type CurrentAcademicYear struct {
	Singleton      bool   `gorm:"primaryKey;default:true" json:"-"`
	AcademicYearID string `gorm:"type:uuid;not null"      json:"academic_year_id"`
	BaseModel

	AcademicYear *AcademicYear `gorm:"foreignKey:AcademicYearID;references:AcademicYearID" json:"academic_year,omitempty"`
}

// TableName 指定表名
func (CurrentAcademicYear) TableName() string { return "current_academic_year" }

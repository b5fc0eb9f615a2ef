package domain

import (
	"time"
)

type Role string

const (
	RoleEmployee   Role = "employee"
	RoleManager    Role = "manager"
	RoleHRAdmin    Role = "hr_admin"
	RoleLeadership Role = "leadership"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserSummary 是用户列表中的一项，附带评估记录数量
type UserSummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	SkillsCount int    `json:"skills_count"`
}

type UserFilter struct {
	Skip   int
	Limit  int
	Search string
}

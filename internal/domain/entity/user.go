// Package entity 定义领域实体
package entity

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// UserRole 用户角色
type UserRole string

const (
	UserRoleMember    UserRole = "member"
	UserRoleLeader    UserRole = "leader"
	UserRoleExecutive UserRole = "executive"
)

// User 用户实体
type User struct {
	ID           uint64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string     `json:"username" gorm:"type:varchar(64);uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"type:varchar(255);not null"`
	Name         string     `json:"name" gorm:"type:varchar(128);not null"`
	TeamID       *uint64    `json:"team_id,omitempty" gorm:"index"`
	Role         UserRole   `json:"role" gorm:"type:varchar(16);not null;default:'member'"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// NewUser 创建新用户
func NewUser(username, name string, role UserRole, teamID *uint64) *User {
	if role == "" {
		role = UserRoleMember
	}
	return &User{
		Username: username,
		Name:     name,
		Role:     role,
		TeamID:   teamID,
	}
}

// IsManager 是否可查看团队日报
func (u *User) IsManager() bool {
	return u.Role == UserRoleLeader || u.Role == UserRoleExecutive
}

// SameTeam 是否与另一用户同属一个团队
func (u *User) SameTeam(other *User) bool {
	return u.TeamID != nil && other.TeamID != nil && *u.TeamID == *other.TeamID
}

// TeamIDValue 团队 ID，未分配团队时为 0
func (u *User) TeamIDValue() uint64 {
	if u.TeamID == nil {
		return 0
	}
	return *u.TeamID
}

// SetPassword 设置并散列密码
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword 校验密码
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

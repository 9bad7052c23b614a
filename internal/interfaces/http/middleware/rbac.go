// Package middleware 提供 HTTP 中间件
package middleware

import (
	"slices"

	"daily-report-ai-api/internal/domain/entity"
	apperrors "daily-report-ai-api/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Permission 权限类型
type Permission string

// 权限常量定义
const (
	PermRoomWrite    Permission = "room:write"
	PermReportCreate Permission = "report:create"
	PermReportRead   Permission = "report:read"
	PermTeamRead     Permission = "team:read"
)

// rolePermissions 角色-权限映射表
var rolePermissions = map[entity.UserRole][]Permission{
	entity.UserRoleMember:    {PermRoomWrite, PermReportCreate, PermReportRead},
	entity.UserRoleLeader:    {PermRoomWrite, PermReportCreate, PermReportRead, PermTeamRead},
	entity.UserRoleExecutive: {PermRoomWrite, PermReportCreate, PermReportRead, PermTeamRead},
}

// HasPermission 检查角色是否具有指定权限
func HasPermission(role entity.UserRole, perm Permission) bool {
	return slices.Contains(rolePermissions[role], perm)
}

// RequirePermission 权限检查中间件
func RequirePermission(perm Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		if role == "" {
			abortWithAppError(c, apperrors.ErrUnauthorized)
			return
		}

		if !HasPermission(entity.UserRole(role), perm) {
			abortWithAppError(c, apperrors.New(apperrors.CodePermissionDenied, "permission denied"))
			return
		}

		c.Next()
	}
}

// RequireRole 角色检查中间件
func RequireRole(roles ...entity.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		if role == "" {
			abortWithAppError(c, apperrors.ErrUnauthorized)
			return
		}

		if !slices.Contains(roles, entity.UserRole(role)) {
			abortWithAppError(c, apperrors.New(apperrors.CodePermissionDenied, "role not allowed"))
			return
		}

		c.Next()
	}
}

// RequireManager 团队查看权限检查（便捷方法）
func RequireManager() gin.HandlerFunc {
	return RequirePermission(PermTeamRead)
}

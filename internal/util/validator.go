package util

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	usernameRe = regexp.MustCompile(`^[a-z0-9_]{3,20}$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// NormalizeIdentifier 小写并去掉首尾空白，用于 username/email 入库前的归一化
func NormalizeIdentifier(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidateUsername 验证用户名（归一化后 3-20 位，仅小写字母、数字、下划线）
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is empty")
	}
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("username must be 3-20 characters of letters, digits or underscore")
	}
	return nil
}

// ValidateEmail 验证邮箱格式
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is empty")
	}
	if !emailRe.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword 验证密码长度（8-64 位）
func ValidatePassword(password string) error {
	if len(password) < 8 || len(password) > 64 {
		return fmt.Errorf("password must be 8-64 characters")
	}
	return nil
}

// AnyTrimmedEmpty 任一字段 trim 后为空即视为缺失
func AnyTrimmedEmpty(fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return true
		}
	}
	return false
}

package util

import (
	"strings"
	"testing"
	"time"
)

// ============ 密码哈希测试 ============

func TestHashPassword(t *testing.T) {
	password := "MyPassword123"

	// 测试正常哈希
	hashed, err := HashPassword(password, 4) // 低 cost，加快测试
	if err != nil {
		t.Fatalf("哈希失败: %v", err)
	}
	if !strings.HasPrefix(hashed, "$2") {
		t.Error("哈希格式错误，应为 bcrypt 格式")
	}

	// 测试空密码
	if _, err := HashPassword("", 4); err == nil {
		t.Error("空密码应返回错误")
	}

	// 测试相同密码生成不同哈希
	hashed2, _ := HashPassword(password, 4)
	if hashed == hashed2 {
		t.Error("相同密码应生成不同哈希（随机salt）")
	}

	// 非法 cost 回退到默认值
	if _, err := HashPassword(password, 99); err != nil {
		t.Errorf("非法 cost 应回退默认值: %v", err)
	}
}

func TestCheckPassword(t *testing.T) {
	password := "TestPass456"
	hashed, _ := HashPassword(password, 4)

	// 测试正确密码
	if !CheckPassword(password, hashed) {
		t.Error("正确密码验证失败")
	}

	// 测试错误密码
	if CheckPassword("WrongPass", hashed) {
		t.Error("错误密码不应通过验证")
	}

	// 测试空输入
	if CheckPassword("", hashed) {
		t.Error("空密码不应通过验证")
	}
	if CheckPassword(password, "") {
		t.Error("空哈希不应通过验证")
	}

	// 测试无效格式
	if CheckPassword(password, "invalid-format") {
		t.Error("无效格式不应通过验证")
	}
}

// ============ 重置令牌测试 ============

func TestGenerateResetToken(t *testing.T) {
	token, tokenHash, expiry, err := GenerateResetToken(20 * time.Minute)
	if err != nil {
		t.Fatalf("生成失败: %v", err)
	}
	if len(token) != 40 { // 20 字节 hex
		t.Errorf("令牌长度错误: 期望40，实际%d", len(token))
	}
	if tokenHash != HashResetToken(token) {
		t.Error("返回的哈希应等于明文令牌的 SHA-256")
	}
	if tokenHash == token {
		t.Error("哈希不应等于明文令牌")
	}
	if !expiry.After(time.Now()) {
		t.Error("过期时间应在未来")
	}

	// 测试唯一性
	token2, _, _, _ := GenerateResetToken(20 * time.Minute)
	if token == token2 {
		t.Error("应生成不同的随机令牌")
	}
}

func TestHashResetToken_Deterministic(t *testing.T) {
	if HashResetToken("abc") != HashResetToken("abc") {
		t.Error("相同输入应得到相同哈希")
	}
	if HashResetToken("abc") == HashResetToken("abd") {
		t.Error("不同输入不应得到相同哈希")
	}
	if len(HashResetToken("abc")) != 64 {
		t.Error("SHA-256 hex 长度应为 64")
	}
}

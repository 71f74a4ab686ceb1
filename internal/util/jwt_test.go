package util

import (
	"testing"
	"time"
)

// ============ 访问令牌测试 ============

func TestAccessToken_GenerateAndParse(t *testing.T) {
	secret := "access-secret"

	tok, err := GenerateAccessToken(secret, 42, "alice", "a@x.com", "Alice A", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}
	if tok == "" {
		t.Fatal("GenerateAccessToken returned empty token")
	}

	claims, err := ParseAccessToken(secret, tok)
	if err != nil {
		t.Fatalf("ParseAccessToken error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("Username = %q, want %q", claims.Username, "alice")
	}
	if claims.Email != "a@x.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "a@x.com")
	}
	if claims.FullName != "Alice A" {
		t.Errorf("FullName = %q, want %q", claims.FullName, "Alice A")
	}
}

func TestAccessToken_Expired(t *testing.T) {
	secret := "access-secret"

	tok, err := GenerateAccessToken(secret, 1, "u", "u@x.com", "U", time.Nanosecond)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := ParseAccessToken(secret, tok); err == nil {
		t.Error("过期令牌应解析失败")
	}
}

func TestAccessToken_WrongSecret(t *testing.T) {
	tok, err := GenerateAccessToken("right-secret", 1, "u", "u@x.com", "U", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	if _, err := ParseAccessToken("wrong-secret", tok); err == nil {
		t.Error("错误密钥应解析失败")
	}
}

func TestAccessToken_Malformed(t *testing.T) {
	if _, err := ParseAccessToken("k", "not.a.jwt"); err == nil {
		t.Error("格式错误的令牌应解析失败")
	}
}

// ============ 刷新令牌测试 ============

func TestRefreshToken_GenerateAndParse(t *testing.T) {
	secret := "refresh-secret"

	tok, err := GenerateRefreshToken(secret, 7, time.Hour)
	if err != nil {
		t.Fatalf("GenerateRefreshToken error: %v", err)
	}

	claims, err := ParseRefreshToken(secret, tok)
	if err != nil {
		t.Fatalf("ParseRefreshToken error: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("UserID = %d, want 7", claims.UserID)
	}
}

// 访问令牌不能用刷新密钥验证，反之亦然
func TestTokens_SecretsIndependent(t *testing.T) {
	accessTok, err := GenerateAccessToken("access-secret", 1, "u", "u@x.com", "U", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}
	refreshTok, err := GenerateRefreshToken("refresh-secret", 1, time.Hour)
	if err != nil {
		t.Fatalf("GenerateRefreshToken error: %v", err)
	}

	if _, err := ParseRefreshToken("refresh-secret", accessTok); err == nil {
		t.Error("刷新密钥不应验证通过访问令牌")
	}
	if _, err := ParseAccessToken("access-secret", refreshTok); err == nil {
		t.Error("访问密钥不应验证通过刷新令牌")
	}
}

package util

import "testing"

// TestNormalizeIdentifier 测试归一化（小写 + 去空白）
func TestNormalizeIdentifier(t *testing.T) {
	cases := map[string]string{
		"  Alice ":     "alice",
		"A@X.COM":      "a@x.com",
		"bob":          "bob",
		"   ":          "",
	}

	for in, want := range cases {
		if got := NormalizeIdentifier(in); got != want {
			t.Errorf("NormalizeIdentifier(%q) = %q, want %q", in, got, want)
		}
	}
}

// TestValidateUsername_Valid 测试有效用户名
func TestValidateUsername_Valid(t *testing.T) {
	testCases := []string{"alice", "bob_99", "a1c", "user_name_2024"}

	for _, username := range testCases {
		if err := ValidateUsername(username); err != nil {
			t.Errorf("ValidateUsername(%q) error = %v, want nil", username, err)
		}
	}
}

// TestValidateUsername_Invalid 测试无效用户名（异常）
func TestValidateUsername_Invalid(t *testing.T) {
	testCases := []string{
		"",
		"ab",                      // 太短
		"Alice",                   // 未归一化的大写
		"has space",
		"way_too_long_username_x1", // 超过 20 位
		"email@like",
	}

	for _, username := range testCases {
		if err := ValidateUsername(username); err == nil {
			t.Errorf("ValidateUsername(%q) error = nil, want error", username)
		}
	}
}

// TestValidateEmail 测试邮箱校验
func TestValidateEmail(t *testing.T) {
	valid := []string{"a@x.com", "user.name@example.co", "x_1@sub.domain.org"}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("ValidateEmail(%q) error = %v, want nil", email, err)
		}
	}

	invalid := []string{"", "plain", "@x.com", "a@", "a@x", "a b@x.com"}
	for _, email := range invalid {
		if err := ValidateEmail(email); err == nil {
			t.Errorf("ValidateEmail(%q) error = nil, want error", email)
		}
	}
}

// TestValidatePassword 测试密码长度
func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("Secret123"); err != nil {
		t.Errorf("ValidatePassword error = %v, want nil", err)
	}
	if err := ValidatePassword("short"); err == nil {
		t.Error("过短密码应返回错误")
	}
}

// TestAnyTrimmedEmpty trim 后为空视为缺失
func TestAnyTrimmedEmpty(t *testing.T) {
	if AnyTrimmedEmpty("a", "b", "c") {
		t.Error("全部非空不应视为缺失")
	}
	if !AnyTrimmedEmpty("a", "   ", "c") {
		t.Error("空白字段应视为缺失")
	}
	if !AnyTrimmedEmpty("") {
		t.Error("空字符串应视为缺失")
	}
}

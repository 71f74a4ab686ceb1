package handler

import (
	"net/http"
	"time"

	"github.com/KatanaSword/portfolio/internal/config"
	"github.com/KatanaSword/portfolio/internal/mail"
	"github.com/KatanaSword/portfolio/internal/middleware"
	"github.com/KatanaSword/portfolio/internal/models"
	"github.com/KatanaSword/portfolio/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthHandler 负责注册/登录/令牌刷新/密码找回相关接口
type AuthHandler struct {
	DB         *gorm.DB
	JWT        config.JWTConfig
	Security   config.SecurityConfig
	Mailer     mail.Mailer
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthHandler 构造函数
func NewAuthHandler(db *gorm.DB, jwtCfg config.JWTConfig, secCfg config.SecurityConfig, mailer mail.Mailer) *AuthHandler {
	accessMins := jwtCfg.AccessExpireMins
	if accessMins <= 0 {
		accessMins = 15
	}
	refreshHours := jwtCfg.RefreshExpireHours
	if refreshHours <= 0 {
		refreshHours = 7 * 24
	}
	return &AuthHandler{
		DB:         db,
		JWT:        jwtCfg,
		Security:   secCfg,
		Mailer:     mailer,
		accessTTL:  time.Duration(accessMins) * time.Minute,
		refreshTTL: time.Duration(refreshHours) * time.Hour,
	}
}

// issueTokens 为用户签发新的 access/refresh 令牌，并把 refresh 令牌入库。
// 入库即意味着旧的 refresh 令牌全部失效（单会话设计）。
func (h *AuthHandler) issueTokens(user *models.User) (accessToken, refreshToken string, err error) {
	accessToken, err = util.GenerateAccessToken(
		h.JWT.AccessSecret, user.ID, user.Username, user.Email, user.FullName, h.accessTTL)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = util.GenerateRefreshToken(h.JWT.RefreshSecret, user.ID, h.refreshTTL)
	if err != nil {
		return "", "", err
	}

	if err = h.DB.Model(user).Update("refresh_token", refreshToken).Error; err != nil {
		return "", "", err
	}
	user.RefreshToken = refreshToken
	return accessToken, refreshToken, nil
}

// setAuthCookies 把两个令牌写入 http-only cookie
func (h *AuthHandler) setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("accessToken", accessToken, int(h.accessTTL.Seconds()), "/", "", h.Security.CookieSecure, true)
	c.SetCookie("refreshToken", refreshToken, int(h.refreshTTL.Seconds()), "/", "", h.Security.CookieSecure, true)
}

// clearAuthCookies 清除令牌 cookie
func (h *AuthHandler) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("accessToken", "", -1, "/", "", h.Security.CookieSecure, true)
	c.SetCookie("refreshToken", "", -1, "/", "", h.Security.CookieSecure, true)
}

// ---------- 注册 ----------

type registerReq struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	// trim 后为空一律视为缺失
	if util.AnyTrimmedEmpty(req.FullName, req.Username, req.Email, req.Password) {
		util.Error(c, http.StatusBadRequest, "missing or incomplete information, please fill out all required fields to sign up")
		return
	}

	username := util.NormalizeIdentifier(req.Username)
	email := util.NormalizeIdentifier(req.Email)

	if err := util.ValidateUsername(username); err != nil {
		util.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := util.ValidateEmail(email); err != nil {
		util.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := util.ValidatePassword(req.Password); err != nil {
		util.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to query user")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusConflict, "the account already exists, please use a different username and email to sign up")
		return
	}

	hash, err := util.HashPassword(req.Password, h.Security.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.User{
		FullName:     req.FullName,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	util.Success(c, http.StatusCreated, util.Response{
		"user": user,
	}, "account created successfully")
}

// ---------- 登录 ----------

type loginReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	username := util.NormalizeIdentifier(req.Username)
	email := util.NormalizeIdentifier(req.Email)

	// username 和 email 至少提供一个
	if username == "" && email == "" {
		util.Error(c, http.StatusBadRequest, "missing or incomplete information, please fill out all required fields to log in")
		return
	}

	var user models.User
	if err := h.DB.Where("username = ? OR email = ?", username, email).
		First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusUnauthorized, "incorrect email or username or password")
		} else {
			util.Error(c, http.StatusInternalServerError, "failed to query user")
		}
		return
	}

	// 密码错误不得改动已存的 refresh token
	if !util.CheckPassword(req.Password, user.PasswordHash) {
		util.Error(c, http.StatusBadRequest, "invalid password, please enter the correct password and try again")
		return
	}

	accessToken, refreshToken, err := h.issueTokens(&user)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "something went wrong while generating the access token")
		return
	}

	h.setAuthCookies(c, accessToken, refreshToken)
	util.Success(c, http.StatusOK, util.Response{
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	}, "login successful")
}

// ---------- 登出 ----------

// Logout 清掉已存的 refresh token 和 cookie，重复登出不算错误
func (h *AuthHandler) Logout(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "not logged in")
		return
	}

	if err := h.DB.Model(user).Update("refresh_token", "").Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "logout failed, please try again later")
		return
	}

	h.clearAuthCookies(c)
	util.Success(c, http.StatusOK, nil, "logout successful")
}

// ---------- 刷新令牌 ----------

type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken 用 refresh 令牌换新令牌对。每次刷新都轮换 refresh 令牌，
// 旧令牌再来刷新会因与库里不一致而被拒绝。
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var incoming string
	if cookie, err := c.Cookie("refreshToken"); err == nil {
		incoming = cookie
	}
	if incoming == "" {
		var req refreshReq
		if err := c.ShouldBindJSON(&req); err == nil {
			incoming = req.RefreshToken
		}
	}
	if incoming == "" {
		util.Error(c, http.StatusUnauthorized, "missing or invalid refresh token")
		return
	}

	claims, err := util.ParseRefreshToken(h.JWT.RefreshSecret, incoming)
	if err != nil {
		util.Error(c, http.StatusUnauthorized, "missing or invalid refresh token")
		return
	}

	var user models.User
	if err := h.DB.First(&user, claims.UserID).Error; err != nil {
		util.Error(c, http.StatusUnauthorized, "missing or invalid refresh token")
		return
	}

	// 必须和库里最近一次签发的完全一致，否则视为复用已被轮换掉的旧令牌
	if user.RefreshToken == "" || incoming != user.RefreshToken {
		util.Error(c, http.StatusUnauthorized, "refresh token mismatch, please reauthenticate to obtain a new access token")
		return
	}

	accessToken, refreshToken, err := h.issueTokens(&user)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "something went wrong while generating the access token")
		return
	}

	h.setAuthCookies(c, accessToken, refreshToken)
	util.Success(c, http.StatusOK, util.Response{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	}, "refresh access token successfully")
}

// ---------- 忘记密码 ----------

type forgotPasswordReq struct {
	Email string `json:"email"`
}

// ForgotPassword 生成一次性重置令牌：库里只存哈希和过期时间，
// 明文令牌只出现在发出去的邮件链接里。新请求会覆盖旧令牌。
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	email := util.NormalizeIdentifier(req.Email)
	if email == "" {
		util.Error(c, http.StatusBadRequest, "missing or incomplete information, please fill out required field to forgot password")
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "user does not exist")
		} else {
			util.Error(c, http.StatusInternalServerError, "failed to query user")
		}
		return
	}

	ttlMins := h.Security.ResetTokenTTLMins
	if ttlMins <= 0 {
		ttlMins = 20
	}
	token, tokenHash, expiry, err := util.GenerateResetToken(time.Duration(ttlMins) * time.Minute)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to generate reset token")
		return
	}

	if err := h.DB.Model(&user).Updates(map[string]interface{}{
		"forgot_password_token_hash": tokenHash,
		"forgot_password_expiry":     expiry,
	}).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to store reset token")
		return
	}

	resetURL := h.Security.ResetRedirectURL + "/" + token
	if err := h.Mailer.Send(
		user.Email,
		mail.ResetPasswordSubject,
		mail.ResetPasswordText(user.Username, resetURL),
		mail.ResetPasswordHTML(user.Username, resetURL),
	); err != nil {
		// 令牌已入库，邮件失败只影响本次响应
		util.Error(c, http.StatusInternalServerError, "failed to send password reset email, please try again later")
		return
	}

	util.Success(c, http.StatusOK, nil, "password reset email sent successfully, please check your inbox for further instructions")
}

// ---------- 重置密码 ----------

type resetPasswordReq struct {
	NewPassword string `json:"newPassword"`
}

// ResetPassword 用邮件里的明文令牌重置密码。查找按哈希精确匹配且未过期；
// 成功后在同一次写入里清掉两个重置字段并写入新密码哈希（一次性使用）。
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	resetToken := c.Param("resetToken")

	var req resetPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if util.AnyTrimmedEmpty(req.NewPassword) {
		util.Error(c, http.StatusBadRequest, "missing or incomplete information, please fill out required field to reset password")
		return
	}
	if err := util.ValidatePassword(req.NewPassword); err != nil {
		util.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	tokenHash := util.HashResetToken(resetToken)

	var user models.User
	if err := h.DB.Where("forgot_password_token_hash = ? AND forgot_password_expiry > ?", tokenHash, time.Now()).
		First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusBadRequest, "token is invalid or expired")
		} else {
			util.Error(c, http.StatusInternalServerError, "failed to query user")
		}
		return
	}

	hash, err := util.HashPassword(req.NewPassword, h.Security.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to hash password")
		return
	}

	if err := h.DB.Model(&user).Updates(map[string]interface{}{
		"password_hash":              hash,
		"forgot_password_token_hash": "",
		"forgot_password_expiry":     nil,
	}).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to reset password")
		return
	}

	util.Success(c, http.StatusOK, nil, "password reset successful, you can now log in with your new password")
}

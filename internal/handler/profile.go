package handler

import (
	"net/http"
	"os"

	"github.com/KatanaSword/portfolio/internal/config"
	"github.com/KatanaSword/portfolio/internal/middleware"
	"github.com/KatanaSword/portfolio/internal/models"
	"github.com/KatanaSword/portfolio/internal/storage"
	"github.com/KatanaSword/portfolio/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProfileHandler 当前用户资料相关接口
type ProfileHandler struct {
	DB       *gorm.DB
	Security config.SecurityConfig
	Storage  storage.Store
	Folder   string // 头像在外部存储里的目录
	TempDir  string
}

// NewProfileHandler 构造函数
func NewProfileHandler(db *gorm.DB, secCfg config.SecurityConfig, store storage.Store, folder, tempDir string) *ProfileHandler {
	if folder == "" {
		folder = "portfolio"
	}
	return &ProfileHandler{
		DB:       db,
		Security: secCfg,
		Storage:  store,
		Folder:   folder + "/user",
		TempDir:  tempDir,
	}
}

// GetCurrentUser 返回当前登录用户信息（需要经过 AuthMiddleware）
func (h *ProfileHandler) GetCurrentUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "not logged in")
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"user": user,
	}, "current user details retrieved successfully")
}

// ---------- 修改密码 ----------

type changePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword 修改当前用户密码，只更新密码哈希一个字段
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "not logged in")
		return
	}

	var req changePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if util.AnyTrimmedEmpty(req.CurrentPassword, req.NewPassword) {
		util.Error(c, http.StatusBadRequest, "missing or incomplete information, please fill out all required fields to change password")
		return
	}
	if err := util.ValidatePassword(req.NewPassword); err != nil {
		util.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	// 校验旧密码
	if !util.CheckPassword(req.CurrentPassword, user.PasswordHash) {
		util.Error(c, http.StatusBadRequest, "password invalid, please enter correct password")
		return
	}

	hash, err := util.HashPassword(req.NewPassword, h.Security.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to hash password")
		return
	}

	if err := h.DB.Model(user).Update("password_hash", hash).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to update password")
		return
	}

	util.Success(c, http.StatusOK, nil, "change password successfully")
}

// ---------- 更新账号资料 ----------

type updateAccountReq struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UpdateAccount 更新姓名/用户名/邮箱，username 和 email 归一化后重新查重
func (h *ProfileHandler) UpdateAccount(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "not logged in")
		return
	}

	var req updateAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if util.AnyTrimmedEmpty(req.FullName, req.Username, req.Email) {
		util.Error(c, http.StatusBadRequest, "missing or incomplete information, please fill out all required fields to update account")
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

	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("(username = ? OR email = ?) AND id <> ?", username, email, user.ID).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to query user")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusConflict, "the account already exists, please use a different username and email")
		return
	}

	if err := h.DB.Model(user).Updates(map[string]interface{}{
		"full_name": req.FullName,
		"username":  username,
		"email":     email,
	}).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "updating account failed due to an unexpected server error, please try again later")
		return
	}

	user.FullName = req.FullName
	user.Username = username
	user.Email = email

	util.Success(c, http.StatusOK, util.Response{
		"user": user,
	}, "account update successfully")
}

// ---------- 更新头像 ----------

// UpdateAvatar 上传新头像到外部存储，入库后再删除旧的远端对象
func (h *ProfileHandler) UpdateAvatar(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "not logged in")
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		util.Error(c, http.StatusBadRequest, "avatar file is missing")
		return
	}

	localPath, err := saveUpload(c, file, h.TempDir)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to save uploaded file")
		return
	}
	defer func() { _ = os.Remove(localPath) }()

	result, err := h.Storage.Upload(c.Request.Context(), localPath, h.Folder)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to upload avatar, please ensure the file format is supported")
		return
	}

	oldPublicID := user.AvatarPublicID

	if err := h.DB.Model(user).Updates(map[string]interface{}{
		"avatar_url":       result.URL,
		"avatar_public_id": result.PublicID,
	}).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "updating avatar failed due to an unexpected server error, please try again later")
		return
	}

	user.AvatarURL = result.URL
	user.AvatarPublicID = result.PublicID

	// 旧头像删除失败不影响本次更新
	if oldPublicID != "" {
		_ = h.Storage.Delete(c.Request.Context(), oldPublicID)
	}

	util.Success(c, http.StatusOK, util.Response{
		"user": user,
	}, "avatar uploaded successfully")
}

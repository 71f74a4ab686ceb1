package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/KatanaSword/portfolio/internal/config"
	"github.com/KatanaSword/portfolio/internal/middleware"
	"github.com/KatanaSword/portfolio/internal/models"
	"github.com/KatanaSword/portfolio/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ---------- 测试替身 ----------

// fakeStore 记录上传/删除调用的内存版对象存储
type fakeStore struct {
	mu       sync.Mutex
	uploads  int
	deleted  []string
	uploadErr error
}

func (s *fakeStore) Upload(_ context.Context, localPath, folder string) (*storage.UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	s.uploads++
	publicID := fmt.Sprintf("%s/fake-%d", folder, s.uploads)
	return &storage.UploadResult{
		URL:      "https://cdn.test/" + publicID,
		PublicID: publicID,
	}, nil
}

func (s *fakeStore) Delete(_ context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, publicID)
	return nil
}

// fakeMailer 把发出的邮件留在内存里供断言
type fakeMailer struct {
	mu    sync.Mutex
	sent  []sentMail
	fail  bool
}

type sentMail struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

func (m *fakeMailer) Send(to, subject, text, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return fmt.Errorf("smtp unavailable")
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Text: text, HTML: html})
	return nil
}

// ---------- 测试环境 ----------

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	store  *fakeStore
	mailer *fakeMailer
}

var testJWTCfg = config.JWTConfig{
	AccessSecret:       "test-access-secret",
	AccessExpireMins:   15,
	RefreshSecret:      "test-refresh-secret",
	RefreshExpireHours: 24,
}

var testSecCfg = config.SecurityConfig{
	BcryptCost:        4, // 低 cost，加快测试
	ResetTokenTTLMins: 20,
	ResetRedirectURL:  "http://localhost:5173/reset-password",
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	// 内存库只允许一个连接
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.Project{}, &models.ProjectImage{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	store := &fakeStore{}
	mailer := &fakeMailer{}

	authHandler := NewAuthHandler(db, testJWTCfg, testSecCfg, mailer)
	profileHandler := NewProfileHandler(db, testSecCfg, store, "portfolio", t.TempDir())
	projectHandler := NewProjectHandler(db, store, "portfolio", t.TempDir(), 10)
	exportHandler := NewExportHandler(db)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")

	authRequired := middleware.AuthMiddleware(testJWTCfg.AccessSecret, db)

	users := api.Group("/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.POST("/refresh-token", authHandler.RefreshToken)
	users.POST("/forgot-password", authHandler.ForgotPassword)
	users.POST("/reset-password/:resetToken", authHandler.ResetPassword)

	usersAuth := users.Group("")
	usersAuth.Use(authRequired)
	usersAuth.POST("/logout", authHandler.Logout)
	usersAuth.GET("/current-user", profileHandler.GetCurrentUser)
	usersAuth.PATCH("/change-password", profileHandler.ChangePassword)
	usersAuth.PATCH("/update-account", profileHandler.UpdateAccount)
	usersAuth.PATCH("/update-avatar", profileHandler.UpdateAvatar)

	projects := api.Group("/projects")
	projects.GET("", projectHandler.ListProjects)
	projects.GET("/:projectId", projectHandler.GetProject)

	projectsAuth := projects.Group("")
	projectsAuth.Use(authRequired)
	projectsAuth.POST("", projectHandler.CreateProject)
	projectsAuth.PATCH("/:projectId", projectHandler.UpdateProject)
	projectsAuth.PATCH("/update-images/:projectId", projectHandler.UpdateImages)
	projectsAuth.DELETE("/:projectId", projectHandler.DeleteProject)
	projectsAuth.GET("/export/xlsx", exportHandler.ExportProjectsXLSX)

	return &testEnv{db: db, router: r, store: store, mailer: mailer}
}

// decodeBody 解析统一响应结构
func decodeBody(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("decode response: %v, body=%s", err, body)
	}
	return m
}

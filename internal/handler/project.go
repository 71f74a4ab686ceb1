package handler

import (
	"net/http"
	"os"
	"strconv"

	"github.com/KatanaSword/portfolio/internal/middleware"
	"github.com/KatanaSword/portfolio/internal/models"
	"github.com/KatanaSword/portfolio/internal/storage"
	"github.com/KatanaSword/portfolio/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// maxProjectImages 每个项目最多保存的图片数
const maxProjectImages = 4

// ProjectHandler 负责作品集项目相关接口
type ProjectHandler struct {
	DB       *gorm.DB
	Storage  storage.Store
	Folder   string // 项目图片在外部存储里的目录
	TempDir  string
	PageSize int
}

// NewProjectHandler 构造函数
func NewProjectHandler(db *gorm.DB, store storage.Store, folder, tempDir string, pageSize int) *ProjectHandler {
	if folder == "" {
		folder = "portfolio"
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return &ProjectHandler{
		DB:       db,
		Storage:  store,
		Folder:   folder + "/projects",
		TempDir:  tempDir,
		PageSize: pageSize,
	}
}

// uploadImages 把 multipart 里的图片逐个落盘并上传到外部存储
func (h *ProjectHandler) uploadImages(c *gin.Context, field string) ([]models.ProjectImage, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > maxProjectImages {
		files = files[:maxProjectImages]
	}

	images := make([]models.ProjectImage, 0, len(files))
	for _, file := range files {
		localPath, err := saveUpload(c, file, h.TempDir)
		if err != nil {
			return nil, err
		}
		result, err := h.Storage.Upload(c.Request.Context(), localPath, h.Folder)
		_ = os.Remove(localPath)
		if err != nil {
			return nil, err
		}
		images = append(images, models.ProjectImage{
			URL:      result.URL,
			PublicID: result.PublicID,
		})
	}
	return images, nil
}

// deleteImages 删除一批远端图片对象，删除失败只能忽略
func (h *ProjectHandler) deleteImages(c *gin.Context, images []models.ProjectImage) {
	for _, img := range images {
		_ = h.Storage.Delete(c.Request.Context(), img.PublicID)
	}
}

// ---------- 项目列表（公开） ----------

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	pageStr := c.DefaultQuery("page", "1")
	limitStr := c.DefaultQuery("limit", strconv.Itoa(h.PageSize))
	page, _ := strconv.Atoi(pageStr)
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(limitStr)
	if limit <= 0 || limit > 100 {
		limit = h.PageSize
	}
	offset := (page - 1) * limit

	var total int64
	if err := h.DB.Model(&models.Project{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to query projects")
		return
	}

	var projects []models.Project
	if err := h.DB.Preload("Images").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&projects).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to query projects")
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"projects":      projects,
		"totalProjects": total,
		"page":          page,
		"limit":         limit,
	}, "project fetch successfully")
}

// ---------- 项目详情（公开） ----------

func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("projectId"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, "invalid project id")
		return
	}

	var project models.Project
	if err := h.DB.Preload("Images").First(&project, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "project does not exist")
		} else {
			util.Error(c, http.StatusInternalServerError, "failed to query project")
		}
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"project": project,
	}, "project retrieve successfully")
}

// ---------- 创建项目 ----------

// CreateProject 创建项目：文本字段 + multipart images（最多 4 张）
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "not logged in")
		return
	}

	name := c.PostForm("name")
	description := c.PostForm("description")
	github := c.PostForm("github")
	website := c.PostForm("website")

	if util.AnyTrimmedEmpty(name, description, github, website) {
		util.Error(c, http.StatusBadRequest, "missing or incomplete information, please fill out all required fields to create project")
		return
	}

	images, err := h.uploadImages(c, "images")
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to upload images, please ensure the file format is supported")
		return
	}
	if len(images) == 0 {
		util.Error(c, http.StatusBadRequest, "project images is missing")
		return
	}

	project := models.Project{
		Name:        name,
		Description: description,
		GithubURL:   github,
		WebsiteURL:  website,
		OwnerID:     user.ID,
		Images:      images,
	}
	if err := h.DB.Create(&project).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to create project due to an unexpected server error, please try again later")
		return
	}

	util.Success(c, http.StatusCreated, util.Response{
		"project": project,
	}, "project created successfully")
}

// ---------- 更新项目文本字段 ----------

type updateProjectReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Github      string `json:"github"`
	Website     string `json:"website"`
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("projectId"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, "invalid project id")
		return
	}

	var req updateProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if util.AnyTrimmedEmpty(req.Name, req.Description, req.Github, req.Website) {
		util.Error(c, http.StatusBadRequest, "missing or incomplete information, please fill out all required fields to update project")
		return
	}

	var project models.Project
	if err := h.DB.First(&project, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "project does not exist")
		} else {
			util.Error(c, http.StatusInternalServerError, "failed to query project")
		}
		return
	}

	if err := h.DB.Model(&project).Updates(map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"github_url":  req.Github,
		"website_url": req.Website,
	}).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to update due to an unexpected server error, please try again later")
		return
	}

	if err := h.DB.Preload("Images").First(&project, id).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to query project")
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"project": project,
	}, "update project successful")
}

// ---------- 替换项目图片 ----------

// UpdateImages 整组替换项目图片：先写库，成功后再删旧的远端对象
func (h *ProjectHandler) UpdateImages(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("projectId"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, "invalid project id")
		return
	}

	var project models.Project
	if err := h.DB.Preload("Images").First(&project, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "project does not exist")
		} else {
			util.Error(c, http.StatusInternalServerError, "failed to query project")
		}
		return
	}

	images, err := h.uploadImages(c, "images")
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to upload images, please ensure the file format is supported")
		return
	}
	if len(images) == 0 {
		util.Error(c, http.StatusBadRequest, "invalid files upload, please select a valid image file")
		return
	}

	oldImages := project.Images

	// 删除旧图片行并插入新的
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectImage{}).Error; err != nil {
			return err
		}
		for i := range images {
			images[i].ProjectID = project.ID
		}
		return tx.Create(&images).Error
	}); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to update project images due to an unexpected server error, please try again later")
		return
	}

	h.deleteImages(c, oldImages)

	project.Images = images
	util.Success(c, http.StatusOK, util.Response{
		"project": project,
	}, "update project images successfully")
}

// ---------- 删除项目 ----------

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("projectId"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, "invalid project id")
		return
	}

	var project models.Project
	if err := h.DB.Preload("Images").First(&project, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "project does not exist")
		} else {
			util.Error(c, http.StatusInternalServerError, "failed to query project")
		}
		return
	}

	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	}); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to delete project due to an unexpected server error, please try again later")
		return
	}

	h.deleteImages(c, project.Images)

	util.Success(c, http.StatusOK, util.Response{
		"project": project,
	}, "project delete successful")
}

package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/KatanaSword/portfolio/internal/middleware"
	"github.com/KatanaSword/portfolio/internal/models"
	"github.com/KatanaSword/portfolio/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler 负责项目数据导出
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

// ExportProjectsXLSX 把当前用户的项目导出为 XLSX
func (h *ExportHandler) ExportProjectsXLSX(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "not logged in")
		return
	}

	var projects []models.Project
	if err := h.DB.Preload("Images").
		Where("owner_id = ?", user.ID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to query projects")
		return
	}

	f := excelize.NewFile()
	sheetName := "Projects"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to create worksheet")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	// 设置表头
	headers := []string{"Name", "Description", "Github", "Website", "Images", "Created"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	// 写入数据
	for idx, p := range projects {
		row := idx + 2

		imageURLs := make([]string, 0, len(p.Images))
		for _, img := range p.Images {
			imageURLs = append(imageURLs, img.URL)
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), p.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), p.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), p.GithubURL)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), p.WebsiteURL)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), strings.Join(imageURLs, "\n"))
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), p.CreatedAt.Format("2006-01-02"))
	}

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "B", 40)
	f.SetColWidth(sheetName, "C", "D", 30)
	f.SetColWidth(sheetName, "E", "E", 40)
	f.SetColWidth(sheetName, "F", "F", 12)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"projects_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, "export failed")
	}
}

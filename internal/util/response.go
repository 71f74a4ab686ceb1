package util

import "github.com/gin-gonic/gin"

// Response 通用返回结构里的 data 使用 map
type Response map[string]interface{}

// Success 统一成功返回，success 标志由状态码推导
func Success(c *gin.Context, statusCode int, data Response, message string) {
	if data == nil {
		data = Response{}
	}
	c.JSON(statusCode, gin.H{
		"statusCode": statusCode,
		"data":       data,
		"message":    message,
		"success":    statusCode < 400,
	})
}

// Error 统一错误返回
func Error(c *gin.Context, statusCode int, message string, errs ...string) {
	if errs == nil {
		errs = []string{}
	}
	c.JSON(statusCode, gin.H{
		"statusCode": statusCode,
		"message":    message,
		"success":    false,
		"errors":     errs,
	})
}

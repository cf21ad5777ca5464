package handler

import (
	"github.com/gin-gonic/gin"

	appErrors "sudooom.community/pkg/errors"
	"sudooom.community/pkg/response"
)

// bindJSON 解析请求体，失败时直接返回 400
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Fail(c, appErrors.ErrValidation.WithMessage("Invalid JSON body"))
		return false
	}
	return true
}

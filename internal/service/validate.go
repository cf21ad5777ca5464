package service

import (
	"fmt"
	"unicode/utf8"

	appErrors "sudooom.community/pkg/errors"
)

// 与表结构中的 VARCHAR 长度一致
const (
	maxUsernameLen  = 50
	maxItemNameLen  = 100
	maxCategoryLen  = 50
	maxGroupNameLen = 100
)

// checkLength 按字符数校验长度
func checkLength(field, value string, limit int) error {
	if utf8.RuneCountInString(value) > limit {
		return appErrors.ErrValidation.WithMessage(fmt.Sprintf("%s too long (max %d characters)", field, limit))
	}
	return nil
}

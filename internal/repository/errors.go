package repository

import (
	"errors"

	"gorm.io/gorm"
)

// translate 将 gorm 的记录不存在错误转换为领域错误，其余错误原样返回
func translate(err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

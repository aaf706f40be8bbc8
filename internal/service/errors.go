package service

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownEvent   = errors.New("unknown touch event")
	ErrInvalidBatch   = errors.New("invalid touch batch")
	ErrInternalServer = errors.New("internal server error")
)

// mapRepoError 将仓库层的错误映射为服务层错误，保留原始错误信息用于日志
func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrInternalServer, err)
}

package repository

import "errors"

// ErrUnavailable 表示后端存储暂时不可用 (连接失败、超时)
var ErrUnavailable = errors.New("repository: backend unavailable")

package util

import "errors"

// 分类错误：控制器按此映射 HTTP 状态码
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation failed")
	ErrUpstream   = errors.New("upstream failure")
)

// 领域错误，均包装上面的分类错误
var (
	ErrUserNotFound       = Wrap(ErrNotFound, "用户不存在")
	ErrEmailRegistered    = Wrap(ErrValidation, "该邮箱已被注册")
	ErrInvalidCredentials = Wrap(ErrValidation, "invalid credentials")
	ErrChallengeNotFound  = Wrap(ErrNotFound, "challenge not found")
	ErrAttemptNotFound    = Wrap(ErrNotFound, "attempt not found")
	ErrChoiceNotFound     = Wrap(ErrNotFound, "challenge choice not found")
	ErrNotAttemptOwner    = Wrap(ErrForbidden, "attempt belongs to another user")
	ErrNotEnoughPoints    = Wrap(ErrValidation, "not enough points")
	ErrInvalidPage        = Wrap(ErrValidation, "invalid page")
	ErrMailDelivery       = Wrap(ErrUpstream, "mail delivery failed")
)

var ErrInvalidToken = errors.New("invalid token")

type wrapped struct {
	kind error
	msg  string
}

func (w *wrapped) Error() string { return w.msg }
func (w *wrapped) Unwrap() error { return w.kind }

// Wrap 生成一个带自定义文案、errors.Is 可匹配到 kind 的错误
func Wrap(kind error, msg string) error {
	return &wrapped{kind: kind, msg: msg}
}

package response

import "net/http"

// 业务错误码
const (
	// 失败
	Fail ResponseCode = 0
	// 参数解析错误
	ParseError ResponseCode = 1
	// 参数错误
	InvalidParameter ResponseCode = 2
	// 未认证
	Unauthorized ResponseCode = 3
	// 无权限
	Forbidden ResponseCode = 4
	// 资源不存在
	NotFound ResponseCode = 5
	// 唯一约束冲突（如用户名已存在）
	Conflict ResponseCode = 6
	// 上游服务错误（AI 接口等）
	UpstreamError ResponseCode = 7
)

// HTTPStatus 业务错误码到 HTTP 状态码的映射
func (c ResponseCode) HTTPStatus() int {
	switch c {
	case Success:
		return http.StatusOK
	case ParseError, InvalidParameter, Conflict:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type BusinessError struct {
	Code ResponseCode
	Msg  string
	Err  error
}

func (be *BusinessError) Error() string {
	return be.Msg
}

type ErrorOption func(*BusinessError)

func WithErrorCode(code ResponseCode) ErrorOption {
	return func(be *BusinessError) {
		be.Code = code
	}
}

func WithErrorMessage(msg string) ErrorOption {
	return func(be *BusinessError) {
		be.Msg = msg
	}
}

func WithError(err error) ErrorOption {
	return func(be *BusinessError) {
		be.Err = err
	}
}

func NewBusinessError(opts ...ErrorOption) *BusinessError {
	err := &BusinessError{
		Code: Fail,
		Msg:  "business error",
		Err:  nil,
	}
	for _, opt := range opts {
		opt(err)
	}
	return err
}

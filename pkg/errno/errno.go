package errno

import (
	"errors"
	"net/http"
)

// Errno defines the error code logic
type Errno struct {
	Code       int
	Message    string
	HTTPStatus int
}

func (e Errno) Error() string {
	return e.Message
}

// Is 按错误码比较，WithMessage 产生的副本仍然与原错误匹配
func (e Errno) Is(target error) bool {
	switch t := target.(type) {
	case Errno:
		return e.Code == t.Code
	case *Errno:
		return t != nil && e.Code == t.Code
	}
	return false
}

// WithMessage 返回一个替换了提示信息的副本
func (e Errno) WithMessage(msg string) Errno {
	e.Message = msg
	return e
}

// Status 返回对应的 HTTP 状态码，未设置时默认 200
func (e Errno) Status() int {
	if e.HTTPStatus == 0 {
		return http.StatusOK
	}
	return e.HTTPStatus
}

// Decode tries to convert an error to Errno
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}
	if e, ok := As(err); ok {
		return e.Code, e.Message
	}
	return InternalServerError.Code, InternalServerError.Message
}

// As 在错误链中查找 Errno
func As(err error) (Errno, bool) {
	var typed Errno
	if errors.As(err, &typed) {
		return typed, true
	}
	var ptr *Errno
	if errors.As(err, &ptr) && ptr != nil {
		return *ptr, true
	}
	return Errno{}, false
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success", HTTPStatus: http.StatusOK}
	InternalServerError = Errno{Code: 10001, Message: "Internal server error", HTTPStatus: http.StatusInternalServerError}
	ErrBind             = Errno{Code: 10002, Message: "Error occurred while binding the request body to the struct", HTTPStatus: http.StatusBadRequest}
	ErrDatabase         = Errno{Code: 10004, Message: "Database error", HTTPStatus: http.StatusInternalServerError}
)

// Settlement Errors (30000+)
// 每个失败阶段对应且只对应一个错误码
var (
	ErrInvalidSubmission        = Errno{Code: 30001, Message: "Invalid tip submission", HTTPStatus: http.StatusBadRequest}
	ErrDuplicateSubmission      = Errno{Code: 30002, Message: "Duplicate submission: transaction already recorded", HTTPStatus: http.StatusConflict}
	ErrUnsupportedChain         = Errno{Code: 30003, Message: "Unsupported chain", HTTPStatus: http.StatusBadRequest}
	ErrAssignmentNotFound       = Errno{Code: 30004, Message: "QR code does not resolve to an active payout assignment", HTTPStatus: http.StatusNotFound}
	ErrReceiptTimeout           = Errno{Code: 30005, Message: "Timed out waiting for transaction receipt", HTTPStatus: http.StatusGatewayTimeout}
	ErrTransactionFailedOnChain = Errno{Code: 30006, Message: "Transaction failed on chain", HTTPStatus: http.StatusUnprocessableEntity}
	ErrRecipientMismatch        = Errno{Code: 30007, Message: "Transaction recipient does not match the payout wallet", HTTPStatus: http.StatusUnprocessableEntity}
	ErrAmountMismatch           = Errno{Code: 30008, Message: "Transaction value does not match the submitted amount", HTTPStatus: http.StatusUnprocessableEntity}
	ErrPriceUnavailable         = Errno{Code: 30009, Message: "Price quote unavailable", HTTPStatus: http.StatusServiceUnavailable}
	ErrRecordingFailed          = Errno{Code: 30010, Message: "Failed to record tip", HTTPStatus: http.StatusInternalServerError}
	ErrTipNotFound              = Errno{Code: 30011, Message: "Tip not found", HTTPStatus: http.StatusNotFound}
	// 另一个请求正在校验同一笔交易，此时尚未入账，不能当作 Duplicate
	ErrVerificationInProgress = Errno{Code: 30012, Message: "Transaction is already being verified, retry shortly", HTTPStatus: http.StatusConflict}
)

// Retryable 表示调用方可以稍后重新提交整个请求
// (超时 / 价格源不可用 / 写库失败 / 其他请求校验中)，幂等键保证重提无害
func Retryable(err error) bool {
	e, ok := As(err)
	if !ok {
		return false
	}
	switch e.Code {
	case ErrReceiptTimeout.Code, ErrPriceUnavailable.Code, ErrRecordingFailed.Code, ErrVerificationInProgress.Code:
		return true
	}
	return false
}

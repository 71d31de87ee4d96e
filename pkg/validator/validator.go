package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"tip-core/pkg/address"
	"tip-core/pkg/qrcode"
)

var validate *validator.Validate

// Init 在 gin 的校验引擎上注册自定义 tag
//
//	txhash  0x + 64 hex
//	ethaddr 0x + 40 hex
//	qrcode  公开 QR 标识
//	uintstr 非负十进制整数字符串 (wei)
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validate = v
		register(v)
	}
}

func register(v *validator.Validate) {
	_ = v.RegisterValidation("txhash", func(fl validator.FieldLevel) bool {
		return address.IsTxHash(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("ethaddr", func(fl validator.FieldLevel) bool {
		return address.IsValid(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("qrcode", func(fl validator.FieldLevel) bool {
		return qrcode.IsValid(fl.Field().String())
	})
	_ = v.RegisterValidation("uintstr", func(fl validator.FieldLevel) bool {
		return IsUintString(fl.Field().String())
	})
}

// IsUintString 非空，仅由数字组成
func IsUintString(s string) bool {
	if s == "" || len(s) > 78 { // 2^256 有 78 位
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// GetErrorMsg translates validation errors into user-friendly messages
func GetErrorMsg(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var errMsgs []string
		for _, e := range validationErrors {
			field := e.Field()
			tag := e.Tag()
			param := e.Param()

			switch tag {
			case "required":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 不能为空", field))
			case "txhash":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 必须是 0x 开头的 64 位十六进制交易哈希", field))
			case "ethaddr":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 必须是 0x 开头的 40 位十六进制地址", field))
			case "qrcode":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 不是合法的二维码标识", field))
			case "uintstr":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 必须是非负整数字符串", field))
			case "gt":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 必须大于 %s", field, param))
			case "max":
				errMsgs = append(errMsgs, fmt.Sprintf("%s 长度不能超过 %s", field, param))
			default:
				errMsgs = append(errMsgs, fmt.Sprintf("%s 校验失败 (%s)", field, tag))
			}
		}
		return strings.Join(errMsgs, "; ")
	}
	return "请求参数错误"
}

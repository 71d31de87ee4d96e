package qrcode

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// 去掉容易混淆的 0/O/1/I/L，印在桌卡上也能手输
const alphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// DefaultLength 31^12 约 7e17，公开 ID 不可枚举
const DefaultLength = 12

// Reader 随机源，测试时可替换
var Reader io.Reader = rand.Reader

// NewCode 生成 n 位的公开 QR 标识
func NewCode(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("长度必须为正数")
	}
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(Reader, max)
		if err != nil {
			return "", fmt.Errorf("生成随机字节失败: %w", err)
		}
		buf[i] = alphabet[idx.Int64()]
	}
	return string(buf), nil
}

// MaxLength 外部存量 QR 标识的长度上限
const MaxLength = 64

// IsValid 判断是否为合法的公开 QR 标识
// 标识对本服务不透明 (存量卡片可能不是 NewCode 生成的)，
// 这里只要求非空、不超长且可直接放进 URL 路径，是否存在由任职查询决定
func IsValid(code string) bool {
	if code == "" || len(code) > MaxLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !urlSafe(code[i]) {
			return false
		}
	}
	return true
}

func urlSafe(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}

package address

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var (
	addressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	txHashRe  = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
)

// IsValid 判断是否为 0x + 40 位十六进制地址 (不校验 EIP-55 大小写)
func IsValid(addr string) bool {
	return addressRe.MatchString(addr)
}

// IsTxHash 判断是否为 0x + 64 位十六进制交易哈希
func IsTxHash(hash string) bool {
	return txHashRe.MatchString(hash)
}

// Normalize 去空白并转小写，用作比较和存储的规范形式
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Equal 大小写不敏感比较两个地址
// 任一方为空都视为不相等
func Equal(a, b string) bool {
	a, b = Normalize(a), Normalize(b)
	if a == "" || b == "" {
		return false
	}
	return a == b
}

// Checksum 返回 EIP-55 混合大小写地址，非法输入原样返回
func Checksum(addr string) string {
	if !IsValid(addr) {
		return addr
	}
	return common.HexToAddress(addr).Hex()
}

package utils

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

func ConvertToJsonString(v any) string {
	data, _ := json.Marshal(v)
	return string(data)
}

// ShortAddress 截断展示链上地址: 0x1234...abcd
func ShortAddress(address string) string {
	if len(address) > 9 {
		return fmt.Sprintf("%s...%s", address[:6], address[len(address)-4:])
	}
	return address
}

// FormatNative 格式化原生币金额用于展示
// 大额用K/M缩写, 小额按数量级保留精度
func FormatNative(amount decimal.Decimal) string {
	f, _ := amount.Float64()

	if f >= 1000000 {
		return fmt.Sprintf("%.2fM", f/1000000)
	} else if f >= 1000 {
		return fmt.Sprintf("%.2fK", f/1000)
	}

	if amount.IsZero() {
		return "0"
	}
	if f < 0.0001 {
		return amount.Truncate(8).String()
	} else if f < 0.01 {
		return amount.Truncate(6).String()
	} else if f < 1 {
		return amount.Truncate(4).String()
	}
	return amount.Truncate(2).String()
}

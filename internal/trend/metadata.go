package trend

import (
	"fmt"
	"strings"
	"time"

	"github.com/basepulse/pulse-agent/internal/model"
)

// GenerateMetadata 根据趋势主题与情绪分推导代币元数据
// 取主题前两个单词各自首字母大写后拼接, 符号取拼接结果前四个字符大写加P后缀
// now 由调用方注入, 同一输入在同一天内结果确定
func GenerateMetadata(theme string, sentiment float64, now time.Time) model.TokenMetadata {
	date := now.UTC().Format("2006-01-02")

	words := strings.Fields(theme)
	if len(words) > 2 {
		words = words[:2]
	}

	var b strings.Builder
	for _, w := range words {
		r := []rune(w)
		b.WriteString(strings.ToUpper(string(r[0])))
		b.WriteString(string(r[1:]))
	}
	trendName := b.String()

	symbolBase := []rune(trendName)
	if len(symbolBase) > 4 {
		symbolBase = symbolBase[:4]
	}

	return model.TokenMetadata{
		Name:   trendName + " Pulse",
		Symbol: strings.ToUpper(string(symbolBase)) + "P",
		Description: fmt.Sprintf(
			"A token representing the Base ecosystem trend: %q. Deployed by BasePulse on %s with sentiment score %.1f/100.",
			theme, date, sentiment,
		),
	}
}

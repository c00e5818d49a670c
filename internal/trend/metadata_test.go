package trend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateMetadata(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	meta := GenerateMetadata("Base ecosystem growth", 87.3, now)

	require.Equal(t, "BaseEcosystem Pulse", meta.Name)
	require.Equal(t, "BASEP", meta.Symbol)
	require.Contains(t, meta.Description, `"Base ecosystem growth"`)
	require.Contains(t, meta.Description, "2026-08-29")
	require.Contains(t, meta.Description, "87.3/100")
}

func TestGenerateMetadataSingleWord(t *testing.T) {
	now := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	meta := GenerateMetadata("DeFi", 90, now)
	require.Equal(t, "DeFi Pulse", meta.Name)
	require.Equal(t, "DEFIP", meta.Symbol)

	// 不足4个字符时符号直接整体大写
	meta = GenerateMetadata("Eth", 50, now)
	require.Equal(t, "Eth Pulse", meta.Name)
	require.Equal(t, "ETHP", meta.Symbol)
}

func TestGenerateMetadataUsesFirstTwoWords(t *testing.T) {
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	meta := GenerateMetadata("smart contract security audits", 60.5, now)
	require.Equal(t, "SmartContract Pulse", meta.Name)
	require.Equal(t, "SMARP", meta.Symbol)
	require.Contains(t, meta.Description, "2026-01-02")
	require.Contains(t, meta.Description, "60.5/100")
}

// 相同输入必须得到相同输出
func TestGenerateMetadataDeterministic(t *testing.T) {
	now := time.Date(2026, 8, 29, 23, 59, 59, 0, time.UTC)

	a := GenerateMetadata("Coinbase integration", 82.0, now)
	b := GenerateMetadata("Coinbase integration", 82.0, now)
	require.Equal(t, a, b)
}

package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateID 生成不带连字符的uuid
func GenerateID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

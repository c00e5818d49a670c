package utils

import (
	"runtime"
)

func GetStack() []byte {
	buf := make([]byte, 10240)
	stackSize := runtime.Stack(buf, false)
	return buf[:stackSize]
}

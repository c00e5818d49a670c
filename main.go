package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/basepulse/pulse-agent/internal/app"
	"github.com/basepulse/pulse-agent/pkg/utils"
)

func main() {
	// 先加载.env（本地开发使用），不存在时静默忽略
	_ = godotenv.Load()

	configPath := utils.GetConfigFilePath()
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	// 创建应用实例
	application := app.New()

	// 启动应用
	if err := application.Start(configPath); err != nil {
		fmt.Printf("应用启动失败: %v\n", err)
		os.Exit(1)
	}
}

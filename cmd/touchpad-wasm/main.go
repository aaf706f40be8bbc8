//go:build js && wasm

// touchpad-wasm 是触摸页面的 WebAssembly 入口，由 server 以 /main.wasm 提供。
package main

import (
	"github.com/sirupsen/logrus"

	"github.com/CcydtN/Touchpad-Emulator/internal/webui"
)

func main() {
	page, err := webui.Mount(webui.Options{})
	if err != nil {
		logrus.Fatalf("Failed to mount touch page: %v", err)
	}
	defer page.Release()

	// 保持运行，回调由浏览器事件循环驱动
	select {}
}

package http

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// PageTemplate 是页面外壳在 gin HTML 模板集中的名字
const PageTemplate = "index.html"

// PageHandler 提供页面外壳以及 wasm 构建产物
type PageHandler struct {
	assetsDir string
	width     int
	height    int
}

// NewPageHandler 创建 PageHandler。assetsDir 中应有 main.wasm 与 wasm_exec.js。
func NewPageHandler(assetsDir string, width, height int) *PageHandler {
	return &PageHandler{assetsDir: assetsDir, width: width, height: height}
}

// Index 处理 GET /
func (h *PageHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, PageTemplate, gin.H{
		"Width":  h.width,
		"Height": h.height,
	})
}

// Asset 返回处理单个构建产物的 handler
func (h *PageHandler) Asset(name string) gin.HandlerFunc {
	path := filepath.Join(h.assetsDir, name)
	return func(c *gin.Context) {
		c.File(path)
	}
}

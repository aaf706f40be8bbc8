// Package web 内嵌页面外壳模板
package web

import (
	_ "embed"
	"html/template"
)

//go:embed index.html
var indexHTML string

// IndexTemplate 渲染 index.html，参数为 Width / Height
var IndexTemplate = template.Must(template.New("index.html").Parse(indexHTML))

//go:build js && wasm

// Package webui 把 touch 包绑定到浏览器 DOM：canvas 2D 上下文、日志元素与触摸事件。
package webui

import "syscall/js"

// jsCanvas 通过 syscall/js 调用 CanvasRenderingContext2D，实现 touch.Canvas
type jsCanvas struct {
	ctx js.Value
}

func newCanvas(ctx js.Value) *jsCanvas { return &jsCanvas{ctx: ctx} }

func (c *jsCanvas) BeginPath() { c.ctx.Call("beginPath") }

func (c *jsCanvas) Arc(x, y, radius, startAngle, endAngle float64) {
	c.ctx.Call("arc", x, y, radius, startAngle, endAngle, false)
}

func (c *jsCanvas) MoveTo(x, y float64) { c.ctx.Call("moveTo", x, y) }
func (c *jsCanvas) LineTo(x, y float64) { c.ctx.Call("lineTo", x, y) }

func (c *jsCanvas) SetLineWidth(width float64)  { c.ctx.Set("lineWidth", width) }
func (c *jsCanvas) SetFillStyle(color string)   { c.ctx.Set("fillStyle", color) }
func (c *jsCanvas) SetStrokeStyle(color string) { c.ctx.Set("strokeStyle", color) }

func (c *jsCanvas) Fill()   { c.ctx.Call("fill") }
func (c *jsCanvas) Stroke() { c.ctx.Call("stroke") }

func (c *jsCanvas) FillRect(x, y, w, h float64) { c.ctx.Call("fillRect", x, y, w, h) }

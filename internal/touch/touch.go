// Package touch 实现触摸可视化的核心逻辑：坐标提取、活跃触点登记、颜色分配、绘制与事件分发。
// 该包不依赖 syscall/js，浏览器端 (js/wasm) 与服务端镜像共用同一份实现。
package touch

import (
	"fmt"
	"math"
)

// Event 表示一种触摸生命周期信号，取值同时也是上报端点的名称。
type Event string

const (
	EventStart  Event = "touchstart"
	EventMove   Event = "touchmove"
	EventEnd    Event = "touchend"
	EventCancel Event = "touchcancel"
)

// Events 按生命周期顺序列出全部信号
var Events = []Event{EventStart, EventMove, EventEnd, EventCancel}

// ParseEvent 将端点名称解析为 Event。
func ParseEvent(name string) (Event, error) {
	for _, e := range Events {
		if string(e) == name {
			return e, nil
		}
	}
	return "", fmt.Errorf("touch: unknown event %q", name)
}

// Touch 是一个触点记录，坐标为相对绘制表面左上角的像素坐标。
type Touch struct {
	Identifier int     `json:"identifier"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

// RawPoint 是平台提供的原始触点 (clientX/clientY 为视口坐标)
type RawPoint struct {
	Identifier int
	ClientX    float64
	ClientY    float64
}

// Rect 是绘制表面当前的包围矩形 (getBoundingClientRect)
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Extract 将原始触点转换为表面坐标，并钳制到 [0, width-2] × [0, height-2]，
// 保证绘制的标记完整落在表面内。越界输入只钳制，不拒绝。
// 返回值永远不为 nil，空批次序列化为 "[]"。
func Extract(rect Rect, points []RawPoint) []Touch {
	touches := make([]Touch, 0, len(points))
	for _, p := range points {
		touches = append(touches, Touch{
			Identifier: p.Identifier,
			X:          clamp(p.ClientX-rect.Left, 0, math.Max(rect.Width-2, 0)),
			Y:          clamp(p.ClientY-rect.Top, 0, math.Max(rect.Height-2, 0)),
		})
	}
	return touches
}

// clamp 与 min(max(v, lo), hi) 等价，调用方保证 lo <= hi
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

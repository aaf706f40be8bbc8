package touch

import "math"

const (
	// MarkerRadius 起点圆点半径
	MarkerRadius = 4.0
	// MarkerSize 终点方块边长
	MarkerSize = 8.0
	// LineWidth 线段宽度
	LineWidth = 4.0
)

// Canvas 是一个即时模式的 2D 绘图上下文 (CanvasRenderingContext2D 的子集)。
// 只写，不提供任何查询。
type Canvas interface {
	BeginPath()
	Arc(x, y, radius, startAngle, endAngle float64)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	SetLineWidth(width float64)
	SetFillStyle(color string)
	SetStrokeStyle(color string)
	Fill()
	Stroke()
	FillRect(x, y, w, h float64)
}

// Renderer 在 Canvas 上绘制触点标记
type Renderer struct {
	canvas Canvas
}

// NewRenderer 创建 Renderer 实例
func NewRenderer(canvas Canvas) *Renderer {
	if canvas == nil {
		panic("Canvas cannot be nil for Renderer")
	}
	return &Renderer{canvas: canvas}
}

// DrawStartMarker 以 (x, y) 为圆心画一个半径 4 的实心圆
func (r *Renderer) DrawStartMarker(x, y float64, color string) {
	r.canvas.BeginPath()
	r.canvas.Arc(x, y, MarkerRadius, 0, 2*math.Pi)
	r.canvas.SetFillStyle(color)
	r.canvas.Fill()
}

// DrawSegment 画一条直线段
func (r *Renderer) DrawSegment(xFrom, yFrom, xTo, yTo float64, color string, width float64) {
	r.canvas.BeginPath()
	r.canvas.MoveTo(xFrom, yFrom)
	r.canvas.LineTo(xTo, yTo)
	r.canvas.SetLineWidth(width)
	r.canvas.SetStrokeStyle(color)
	r.canvas.Stroke()
}

// DrawEndMarker 以 (x, y) 为中心画一个 8×8 的实心方块
func (r *Renderer) DrawEndMarker(x, y float64, color string) {
	r.canvas.SetFillStyle(color)
	r.canvas.FillRect(x-MarkerSize/2, y-MarkerSize/2, MarkerSize, MarkerSize)
}

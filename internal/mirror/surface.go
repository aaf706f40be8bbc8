// Package mirror 在服务端用 gogpu/gg 软件光栅化维护一块与页面同尺寸的镜像画布。
package mirror

import (
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/gogpu/gg"
	"github.com/sirupsen/logrus"
)

// Background 是画布背景色
const Background = "#fff"

// Surface 实现 touch.Canvas。gg 的填充与描边共用一个画刷，
// 因此分别记录 fillStyle / strokeStyle，在 Fill / Stroke 前切换。
type Surface struct {
	mu          sync.Mutex
	dc          *gg.Context
	fillStyle   string
	strokeStyle string
	err         error // 第一次光栅化错误
}

// NewSurface 创建 width×height 的镜像画布
func NewSurface(width, height int) (*Surface, error) {
	if width < 2 || height < 2 {
		return nil, fmt.Errorf("mirror: surface too small: %dx%d", width, height)
	}
	s := &Surface{
		dc:          gg.NewContext(width, height),
		fillStyle:   "#000",
		strokeStyle: "#000",
	}
	s.clear()
	return s, nil
}

func (s *Surface) Width() int  { return s.dc.Width() }
func (s *Surface) Height() int { return s.dc.Height() }

func (s *Surface) BeginPath() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dc.ClearPath()
}

// Arc 与 canvas 的 arc 一致：若当前路径非空，gg 会从当前点连线到圆弧起点
func (s *Surface) Arc(x, y, radius, startAngle, endAngle float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if endAngle-startAngle >= 2*math.Pi {
		s.dc.DrawCircle(x, y, radius)
		return
	}
	s.dc.DrawArc(x, y, radius, startAngle, endAngle)
}

func (s *Surface) MoveTo(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dc.MoveTo(x, y)
}

func (s *Surface) LineTo(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dc.LineTo(x, y)
}

func (s *Surface) SetLineWidth(width float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dc.SetLineWidth(width)
}

func (s *Surface) SetFillStyle(color string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fillStyle = color
}

func (s *Surface) SetStrokeStyle(color string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strokeStyle = color
}

func (s *Surface) Fill() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dc.SetFillBrush(gg.SolidHex(s.fillStyle))
	s.record("fill", s.dc.Fill())
}

func (s *Surface) Stroke() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dc.SetStrokeBrush(gg.SolidHex(s.strokeStyle))
	s.record("stroke", s.dc.Stroke())
}

// FillRect 填充矩形。gg 不提供保存路径的接口，因此与 canvas 的 fillRect 不同，
// 调用前未完成的当前路径会被丢弃。Renderer 只在 Fill / Stroke 之后调用它。
func (s *Surface) FillRect(x, y, w, h float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dc.ClearPath()
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.SetFillBrush(gg.SolidHex(s.fillStyle))
	s.record("fillRect", s.dc.Fill())
}

// EncodePNG 把当前画布编码为 PNG
func (s *Surface) EncodePNG(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("mirror: encode png: %w", err)
	}
	return nil
}

// Reset 清空画布
func (s *Surface) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
	s.err = nil
}

// Err 返回第一次绘制失败的错误
func (s *Surface) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close 释放 gg 上下文持有的资源
func (s *Surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dc.Close()
}

func (s *Surface) clear() {
	s.dc.ClearPath()
	s.dc.ClearWithColor(gg.Hex(Background))
}

func (s *Surface) record(op string, err error) {
	if err == nil {
		return
	}
	logrus.WithError(err).WithField("op", op).Warn("Mirror: rasterization failed")
	if s.err == nil {
		s.err = fmt.Errorf("mirror: %s: %w", op, err)
	}
}

package hid

import (
	"encoding/binary"
	"math"

	"github.com/CcydtN/Touchpad-Emulator/internal/touch"
)

// ReportSize 是一条输入报告的字节数：1 字节标志位 + X(2) + Y(2)
const ReportSize = 5

// Report 是一条触摸板输入报告
type Report struct {
	Confidence bool   `json:"confidence"`
	TipSwitch  bool   `json:"tip_switch"`
	X          uint16 `json:"x"`
	Y          uint16 `json:"y"`
}

// Bytes 按报告描述符的布局编码：bit0 Confidence，bit1 Tip Switch，其余 6 位填充，
// 随后是小端序的 X 与 Y。
func (r Report) Bytes() []byte {
	buf := make([]byte, ReportSize)
	if r.Confidence {
		buf[0] |= 0x01
	}
	if r.TipSwitch {
		buf[0] |= 0x02
	}
	binary.LittleEndian.PutUint16(buf[1:3], r.X)
	binary.LittleEndian.PutUint16(buf[3:5], r.Y)
	return buf
}

// Scale 把表面坐标 [0, extent-2] 线性映射到 [0, LogicalMax]，越界钳制。
func Scale(v, extent float64) uint16 {
	span := extent - 2
	if span <= 0 || v <= 0 {
		return 0
	}
	if v >= span {
		return LogicalMax
	}
	return uint16(math.Round(v / span * LogicalMax))
}

// FromTouch 根据触点与表面尺寸生成报告；down 表示手指是否仍接触表面
func FromTouch(t touch.Touch, width, height float64, down bool) Report {
	return Report{
		Confidence: true,
		TipSwitch:  down,
		X:          Scale(t.X, width),
		Y:          Scale(t.Y, height),
	}
}

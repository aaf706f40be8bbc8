package domain

import (
	"time"

	"github.com/CcydtN/Touchpad-Emulator/internal/hid"
	"github.com/CcydtN/Touchpad-Emulator/internal/touch"
)

// 实时推送中的消息类型
const (
	FeedTypeTouch    = "touch"
	FeedTypeSnapshot = "snapshot" // 新观察者连接时收到的当前触点
)

// FeedEvent 表示服务端处理完一批触点后的结果，推送给观察者并发布到 Redis。
type FeedEvent struct {
	Type      string          `json:"type"`      // 固定为 "touch"
	Event     string          `json:"event"`     // touchstart / touchmove / touchend / touchcancel
	Touches   []touch.Touch   `json:"touches"`   // 钳制后的批次
	Reports   []ContactReport `json:"reports"`   // 每个触点一条 HID 报告
	Active    int             `json:"active"`    // 处理后仍按下的触点数
	Timestamp time.Time       `json:"timestamp"` // 服务端处理时间 (UTC)
}

// ContactReport 把一个触点与其 HID 输入报告关联起来
type ContactReport struct {
	Identifier int        `json:"identifier"`
	Report     hid.Report `json:"report"`
	Hex        string     `json:"hex"` // 报告原始字节的十六进制表示
}

// EventCounts 记录每种触摸信号收到的批次数
type EventCounts map[string]int64

// FeedSnapshot 是观察者连接时收到的第一条消息
type FeedSnapshot struct {
	Type    string        `json:"type"` // 固定为 "snapshot"
	Touches []touch.Touch `json:"touches"`
	Width   int           `json:"width"`
	Height  int           `json:"height"`
}

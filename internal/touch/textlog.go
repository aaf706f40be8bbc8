package touch

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// TextLog 是页面上的文本日志区域：新消息插在最前面，不截断。
type TextLog struct {
	mu   sync.Mutex
	text string
	sink func(text string) // 每次写入后收到完整文本，例如设置元素的 textContent
}

// NewTextLog 创建 TextLog，sink 可以为 nil
func NewTextLog(sink func(text string)) *TextLog {
	return &TextLog{sink: sink}
}

// Log 把 msg + " \n" 插到现有内容之前
func (l *TextLog) Log(msg string) {
	l.mu.Lock()
	l.text = msg + " \n" + l.text
	text := l.text
	l.mu.Unlock()

	if l.sink != nil {
		l.sink(text)
	}
}

// String 返回当前全部文本
func (l *TextLog) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text
}

// TextLogHook 把 logrus 日志消息写入 TextLog
type TextLogHook struct {
	log    *TextLog
	levels []logrus.Level
}

// NewTextLogHook 创建 hook；未指定 levels 时接收全部级别
func NewTextLogHook(log *TextLog, levels ...logrus.Level) *TextLogHook {
	if len(levels) == 0 {
		levels = logrus.AllLevels
	}
	return &TextLogHook{log: log, levels: levels}
}

func (h *TextLogHook) Levels() []logrus.Level { return h.levels }

// Fire 只写入消息本身，字段与时间戳不进入页面日志
func (h *TextLogHook) Fire(entry *logrus.Entry) error {
	h.log.Log(entry.Message)
	return nil
}

package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/CcydtN/Touchpad-Emulator/internal/domain"
	"github.com/CcydtN/Touchpad-Emulator/internal/hid"
	"github.com/CcydtN/Touchpad-Emulator/internal/repository"
	"github.com/CcydtN/Touchpad-Emulator/internal/touch"
)

// Broadcaster 把消息推送给实时观察者，由 hub.Hub 实现
type Broadcaster interface {
	Broadcast(v interface{}) bool
}

// Surface 是服务端镜像画布，由 mirror.Surface 实现
type Surface interface {
	touch.Canvas
	Width() int
	Height() int
	EncodePNG(w io.Writer) error
	Reset()
	Err() error // 第一次光栅化错误，Reset 后清除
}

// TouchpadService 在服务端重放页面上报的触点批次：
// 用与页面相同的 Dispatcher 更新服务端 Registry 并在镜像画布上绘制，
// 再为每个触点生成 HID 报告，计数、发布并推送给观察者。
type TouchpadService struct {
	mu         sync.Mutex // HTTP 请求并发到达，Dispatcher 本身不可重入
	dispatcher *touch.Dispatcher
	surface    Surface
	rect       touch.Rect

	events repository.EventRepository
	feed   Broadcaster // 可以为 nil
	log    *logrus.Entry
	now    func() time.Time
}

// NewTouchpadService 创建 TouchpadService 实例。
func NewTouchpadService(surface Surface, events repository.EventRepository, feed Broadcaster, logger *logrus.Logger) *TouchpadService {
	if surface == nil {
		panic("Surface cannot be nil for TouchpadService")
	}
	if events == nil {
		panic("EventRepository cannot be nil for TouchpadService")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	log := logger.WithField("component", "touchpad_service")
	dispatcherLog := dispatcherLogger(logger).WithField("component", "dispatcher")
	return &TouchpadService{
		dispatcher: touch.NewDispatcher(touch.NewRegistry(), touch.NewRenderer(surface), nil, dispatcherLog),
		surface:    surface,
		rect:       touch.Rect{Width: float64(surface.Width()), Height: float64(surface.Height())},
		events:     events,
		feed:       feed,
		log:        log,
		now:        time.Now,
	}
}

// dispatcherLogger 与 base 共用输出、格式与 hooks。Dispatcher 的逐触点 Info 消息
// 只在 base 为 Debug 级别时输出，Warn 诊断始终输出。
func dispatcherLogger(base *logrus.Logger) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(base.Out)
	l.SetFormatter(base.Formatter)
	l.ReplaceHooks(base.Hooks)
	level := logrus.WarnLevel
	if base.IsLevelEnabled(logrus.DebugLevel) {
		level = base.GetLevel()
	}
	l.SetLevel(level)
	return l
}

// Process 处理一个上报的批次。统计、发布与推送失败只记录日志，不影响返回值：
// 页面从不读取响应。
func (s *TouchpadService) Process(ctx context.Context, name string, touches []touch.Touch) (*domain.FeedEvent, error) {
	event, err := touch.ParseEvent(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
	if err := validateBatch(touches); err != nil {
		return nil, err
	}
	logCtx := s.log.WithFields(logrus.Fields{"event": name, "batch_size": len(touches)})

	// 页面已经换算为表面坐标，这里以 (0,0,W,H) 为矩形重新钳制到镜像画布
	points := make([]touch.RawPoint, 0, len(touches))
	for _, t := range touches {
		points = append(points, touch.RawPoint{Identifier: t.Identifier, ClientX: t.X, ClientY: t.Y})
	}

	s.mu.Lock()
	batch := s.dispatcher.Handle(event, s.rect, points)
	active := s.dispatcher.Registry().Len()
	s.mu.Unlock()

	down := event == touch.EventStart || event == touch.EventMove
	reports := make([]domain.ContactReport, 0, len(batch))
	for _, t := range batch {
		r := hid.FromTouch(t, s.rect.Width, s.rect.Height, down)
		reports = append(reports, domain.ContactReport{
			Identifier: t.Identifier,
			Report:     r,
			Hex:        hex.EncodeToString(r.Bytes()),
		})
	}

	evt := &domain.FeedEvent{
		Type:      domain.FeedTypeTouch,
		Event:     name,
		Touches:   batch,
		Reports:   reports,
		Active:    active,
		Timestamp: s.now().UTC(),
	}

	if err := s.events.IncrementCount(ctx, name); err != nil {
		logCtx.WithError(err).Error("Failed to increment event count")
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		logCtx.WithError(err).Error("Failed to publish touch event")
	}
	if s.feed != nil && !s.feed.Broadcast(evt) {
		// Hub 队列已满或已停止
		logCtx.Warn("Touch event not broadcast to feed")
	}
	logCtx.WithField("active", active).Debug("Touch batch processed")
	return evt, nil
}

// validateBatch 拒绝同一批次内重复的标识符
func validateBatch(touches []touch.Touch) error {
	seen := make(map[int]struct{}, len(touches))
	for _, t := range touches {
		if _, dup := seen[t.Identifier]; dup {
			return fmt.Errorf("%w: duplicate identifier %d", ErrInvalidBatch, t.Identifier)
		}
		seen[t.Identifier] = struct{}{}
	}
	return nil
}

// ActiveContacts 返回服务端当前认为按下的触点
func (s *TouchpadService) ActiveContacts() []touch.Touch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatcher.Registry().Touches()
}

// Counts 返回各事件的批次计数
func (s *TouchpadService) Counts(ctx context.Context) (domain.EventCounts, error) {
	counts, err := s.events.Counts(ctx)
	if err != nil {
		s.log.WithError(err).Error("Failed to read event counts")
		return nil, mapRepoError(err)
	}
	return counts, nil
}

// SurfacePNG 把镜像画布编码为 PNG 写入 w
func (s *TouchpadService) SurfacePNG(w io.Writer) error {
	if err := s.surface.Err(); err != nil {
		s.log.WithError(err).Error("Mirror surface failed to rasterize")
		return fmt.Errorf("%w: %v", ErrInternalServer, err)
	}
	var buf bytes.Buffer
	if err := s.surface.EncodePNG(&buf); err != nil {
		s.log.WithError(err).Error("Failed to encode mirror surface")
		return fmt.Errorf("%w: %v", ErrInternalServer, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Reset 清空镜像画布与服务端 Registry
func (s *TouchpadService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatcher.Registry().Reset()
	s.surface.Reset()
	s.log.Info("Mirror surface and contacts reset")
}

// SurfaceSize 返回镜像画布尺寸
func (s *TouchpadService) SurfaceSize() (width, height int) {
	return s.surface.Width(), s.surface.Height()
}

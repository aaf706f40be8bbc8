package touch

import (
	"github.com/sirupsen/logrus"
)

// Reporter 将一批触点通知给服务端。实现不得阻塞调用方。
type Reporter interface {
	Send(endpoint Event, touches []Touch)
}

// Dispatcher 处理四种触摸信号：提取坐标 → 更新 Registry → 绘制 → 上报。
// 同一批次内的触点按顺序处理；Dispatcher 本身不加锁，调用方保证不重入。
type Dispatcher struct {
	registry *Registry
	renderer *Renderer
	reporter Reporter // 可以为 nil，此时不上报
	log      *logrus.Entry
}

// NewDispatcher 创建 Dispatcher。registry 与 renderer 必须提供。
func NewDispatcher(registry *Registry, renderer *Renderer, reporter Reporter, log *logrus.Entry) *Dispatcher {
	if registry == nil {
		panic("Registry cannot be nil for Dispatcher")
	}
	if renderer == nil {
		panic("Renderer cannot be nil for Dispatcher")
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Dispatcher{
		registry: registry,
		renderer: renderer,
		reporter: reporter,
		log:      log,
	}
}

// Registry 返回 Dispatcher 持有的 Registry
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Handle 按信号类型分发，返回提取后的批次。
func (d *Dispatcher) Handle(event Event, rect Rect, points []RawPoint) []Touch {
	switch event {
	case EventStart:
		return d.Start(rect, points)
	case EventMove:
		return d.Move(rect, points)
	case EventEnd:
		return d.End(rect, points)
	case EventCancel:
		return d.Cancel(rect, points)
	default:
		d.log.Warnf("unknown touch event %q", event)
		return nil
	}
}

// Start 为每个新触点画起点圆并登记
func (d *Dispatcher) Start(rect Rect, points []RawPoint) []Touch {
	touches := Extract(rect, points)
	for _, t := range touches {
		d.log.Infof("touchstart, id: %d", t.Identifier)
		color := ColorForTouch(t.Identifier)
		d.log.Infof("color of touch with id %d = %s", t.Identifier, color)
		d.renderer.DrawStartMarker(t.X, t.Y, color)

		if idx, ok := d.registry.Find(t.Identifier); ok {
			// 平台在同一标识符仍活跃时再次 start：覆盖，保持每个标识符一条记录
			d.log.Warnf("touch %d already active, replacing", t.Identifier)
			d.registry.Replace(idx, t)
			continue
		}
		d.registry.Insert(t)
	}
	d.report(EventStart, touches)
	return touches
}

// Move 从登记的位置到新位置画线段，并替换登记的坐标
func (d *Dispatcher) Move(rect Rect, points []RawPoint) []Touch {
	touches := Extract(rect, points)
	for _, t := range touches {
		idx, ok := d.registry.Find(t.Identifier)
		if !ok {
			d.log.Warn("can't figure out which touch to continue")
			continue
		}
		d.log.Debugf("continuing touch %d", idx)
		prev := d.registry.At(idx)
		d.renderer.DrawSegment(prev.X, prev.Y, t.X, t.Y, ColorForTouch(t.Identifier), LineWidth)
		d.registry.Replace(idx, t)
	}
	d.report(EventMove, touches)
	return touches
}

// End 画最后一段线段与终点方块，并移除登记
func (d *Dispatcher) End(rect Rect, points []RawPoint) []Touch {
	touches := Extract(rect, points)
	d.log.Info("touchend")
	for _, t := range touches {
		idx, ok := d.registry.Find(t.Identifier)
		if !ok {
			d.log.Warn("can't figure out which touch to end")
			continue
		}
		color := ColorForTouch(t.Identifier)
		prev := d.registry.At(idx)
		d.renderer.DrawSegment(prev.X, prev.Y, t.X, t.Y, color, LineWidth)
		d.renderer.DrawEndMarker(t.X, t.Y, color)
		d.registry.Remove(idx)
	}
	d.report(EventEnd, touches)
	return touches
}

// Cancel 只移除登记，不绘制
func (d *Dispatcher) Cancel(rect Rect, points []RawPoint) []Touch {
	touches := Extract(rect, points)
	d.log.Info("touchcancel.")
	for _, t := range touches {
		idx, ok := d.registry.Find(t.Identifier)
		if !ok {
			d.log.Warn("can't figure out which touch to cancel")
			continue
		}
		d.registry.Remove(idx)
	}
	d.report(EventCancel, touches)
	return touches
}

func (d *Dispatcher) report(event Event, touches []Touch) {
	if d.reporter == nil {
		return
	}
	d.reporter.Send(event, touches)
}

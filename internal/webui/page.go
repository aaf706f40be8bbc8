//go:build js && wasm

package webui

import (
	"fmt"
	"net/http"
	"syscall/js"

	"github.com/sirupsen/logrus"

	"github.com/CcydtN/Touchpad-Emulator/internal/touch"
)

// Page 持有页面上的全部组件。回调函数在 Release 之前必须保持引用。
type Page struct {
	surface    js.Value
	dispatcher *touch.Dispatcher
	funcs      []js.Func
	log        *logrus.Entry
}

// Options 页面挂载参数
type Options struct {
	CanvasID string // 默认 "canvas"
	LogID    string // 默认 "log"
	Origin   string // 上报地址，默认 window.location.origin
}

// Mount 查找 canvas 与日志元素，组装 Dispatcher，并注册四个触摸事件监听器。
func Mount(opts Options) (*Page, error) {
	if opts.CanvasID == "" {
		opts.CanvasID = "canvas"
	}
	if opts.LogID == "" {
		opts.LogID = "log"
	}
	global := js.Global()
	doc := global.Get("document")
	if opts.Origin == "" {
		opts.Origin = global.Get("location").Get("origin").String()
	}

	el := doc.Call("getElementById", opts.CanvasID)
	if el.IsNull() || el.IsUndefined() {
		return nil, fmt.Errorf("webui: element #%s not found", opts.CanvasID)
	}
	logEl := doc.Call("getElementById", opts.LogID)
	if logEl.IsNull() || logEl.IsUndefined() {
		return nil, fmt.Errorf("webui: element #%s not found", opts.LogID)
	}

	// 页面日志：logrus 消息经 hook 写入 #log，浏览器控制台同时保留一份
	textLog := touch.NewTextLog(func(text string) {
		logEl.Set("textContent", text)
	})
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	logger.AddHook(touch.NewTextLogHook(textLog))
	log := logger.WithField("component", "touchpad")

	reporter := touch.NewHTTPReporter(opts.Origin, http.DefaultClient)
	reporter.OnError = func(endpoint touch.Event, err error) {
		// 只记录到控制台，不写入页面日志
		js.Global().Get("console").Call("warn", fmt.Sprintf("report %s failed: %v", endpoint, err))
	}

	ctx := el.Call("getContext", "2d")
	p := &Page{
		surface: el,
		dispatcher: touch.NewDispatcher(
			touch.NewRegistry(),
			touch.NewRenderer(newCanvas(ctx)),
			reporter,
			log,
		),
		log: log,
	}

	// passive: false，否则浏览器会忽略 preventDefault
	listenerOpts := map[string]interface{}{"passive": false}
	for _, event := range touch.Events {
		fn := p.handler(event)
		p.funcs = append(p.funcs, fn)
		el.Call("addEventListener", string(event), fn, listenerOpts)
	}

	log.Info("Initialized.")
	return p, nil
}

func (p *Page) handler(event touch.Event) js.Func {
	return js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) == 0 {
			return nil
		}
		evt := args[0]
		evt.Call("preventDefault")
		p.dispatcher.Handle(event, p.rect(), changedTouches(evt))
		return nil
	})
}

func (p *Page) rect() touch.Rect {
	r := p.surface.Call("getBoundingClientRect")
	return touch.Rect{
		Left:   r.Get("left").Float(),
		Top:    r.Get("top").Float(),
		Width:  r.Get("width").Float(),
		Height: r.Get("height").Float(),
	}
}

// changedTouches 把 TouchList 复制为 []touch.RawPoint
func changedTouches(evt js.Value) []touch.RawPoint {
	list := evt.Get("changedTouches")
	n := list.Get("length").Int()
	points := make([]touch.RawPoint, 0, n)
	for i := 0; i < n; i++ {
		t := list.Call("item", i)
		points = append(points, touch.RawPoint{
			Identifier: t.Get("identifier").Int(),
			ClientX:    t.Get("clientX").Float(),
			ClientY:    t.Get("clientY").Float(),
		})
	}
	return points
}

// Release 移除监听器并释放回调
func (p *Page) Release() {
	for i, event := range touch.Events {
		if i < len(p.funcs) {
			p.surface.Call("removeEventListener", string(event), p.funcs[i])
			p.funcs[i].Release()
		}
	}
	p.funcs = nil
}

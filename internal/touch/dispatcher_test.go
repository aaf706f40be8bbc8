package touch

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// recordingCanvas 记录每一次绘图调用
type recordingCanvas struct {
	calls []string
}

func (c *recordingCanvas) BeginPath() { c.calls = append(c.calls, "beginPath") }
func (c *recordingCanvas) Arc(x, y, radius, a0, a1 float64) {
	c.calls = append(c.calls, fmt.Sprintf("arc(%g,%g,%g)", x, y, radius))
}
func (c *recordingCanvas) MoveTo(x, y float64) { c.calls = append(c.calls, fmt.Sprintf("moveTo(%g,%g)", x, y)) }
func (c *recordingCanvas) LineTo(x, y float64) { c.calls = append(c.calls, fmt.Sprintf("lineTo(%g,%g)", x, y)) }
func (c *recordingCanvas) SetLineWidth(w float64) {
	c.calls = append(c.calls, fmt.Sprintf("lineWidth=%g", w))
}
func (c *recordingCanvas) SetFillStyle(s string)   { c.calls = append(c.calls, "fillStyle="+s) }
func (c *recordingCanvas) SetStrokeStyle(s string) { c.calls = append(c.calls, "strokeStyle="+s) }
func (c *recordingCanvas) Fill()                   { c.calls = append(c.calls, "fill") }
func (c *recordingCanvas) Stroke()                 { c.calls = append(c.calls, "stroke") }
func (c *recordingCanvas) FillRect(x, y, w, h float64) {
	c.calls = append(c.calls, fmt.Sprintf("fillRect(%g,%g,%g,%g)", x, y, w, h))
}

func (c *recordingCanvas) reset() { c.calls = nil }

// mockReporter 是 Reporter 的 testify mock
type mockReporter struct {
	mock.Mock
}

func (m *mockReporter) Send(endpoint Event, touches []Touch) {
	m.Called(endpoint, touches)
}

type fixture struct {
	canvas   *recordingCanvas
	reporter *mockReporter
	hook     *logtest.Hook
	d        *Dispatcher
}

func newFixture() *fixture {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	canvas := &recordingCanvas{}
	reporter := new(mockReporter)
	d := NewDispatcher(NewRegistry(), NewRenderer(canvas), reporter, logrus.NewEntry(logger))
	return &fixture{canvas: canvas, reporter: reporter, hook: hook, d: d}
}

var surface = Rect{Left: 0, Top: 0, Width: 100, Height: 100}

func TestDispatcher_StartMoveEndScenario(t *testing.T) {
	f := newFixture()

	// 场景 1: start id=1 @ (10,10)
	f.reporter.On("Send", EventStart, []Touch{{Identifier: 1, X: 10, Y: 10}}).Once()
	f.d.Start(surface, []RawPoint{{Identifier: 1, ClientX: 10, ClientY: 10}})

	assert.Equal(t, []Touch{{Identifier: 1, X: 10, Y: 10}}, f.d.Registry().Touches())
	assert.Equal(t, []string{"beginPath", "arc(10,10,4)", "fillStyle=#100", "fill"}, f.canvas.calls)
	require.NotEmpty(t, f.hook.AllEntries())
	assert.Equal(t, "touchstart, id: 1", f.hook.AllEntries()[0].Message)
	assert.Equal(t, "color of touch with id 1 = #100", f.hook.AllEntries()[1].Message)

	// 场景 2: move id=1 → (20,15)
	f.canvas.reset()
	f.reporter.On("Send", EventMove, []Touch{{Identifier: 1, X: 20, Y: 15}}).Once()
	f.d.Move(surface, []RawPoint{{Identifier: 1, ClientX: 20, ClientY: 15}})

	assert.Equal(t, []string{"beginPath", "moveTo(10,10)", "lineTo(20,15)", "lineWidth=4", "strokeStyle=#100", "stroke"}, f.canvas.calls)
	assert.Equal(t, []Touch{{Identifier: 1, X: 20, Y: 15}}, f.d.Registry().Touches())

	// 场景 3: end id=1 @ (25,15)
	f.canvas.reset()
	f.reporter.On("Send", EventEnd, []Touch{{Identifier: 1, X: 25, Y: 15}}).Once()
	f.d.End(surface, []RawPoint{{Identifier: 1, ClientX: 25, ClientY: 15}})

	assert.Equal(t, []string{
		"beginPath", "moveTo(20,15)", "lineTo(25,15)", "lineWidth=4", "strokeStyle=#100", "stroke",
		"fillStyle=#100", "fillRect(21,11,8,8)",
	}, f.canvas.calls)
	assert.Equal(t, 0, f.d.Registry().Len())

	f.reporter.AssertExpectations(t)
}

func TestDispatcher_MoveUnknownIdentifier(t *testing.T) {
	f := newFixture()
	f.reporter.On("Send", EventMove, mock.Anything).Once()

	f.d.Move(surface, []RawPoint{{Identifier: 9, ClientX: 1, ClientY: 1}})

	assert.Equal(t, 0, f.d.Registry().Len())
	assert.Empty(t, f.canvas.calls, "未知标识符不应绘制")
	assert.Equal(t, "can't figure out which touch to continue", f.hook.LastEntry().Message)
	assert.Equal(t, logrus.WarnLevel, f.hook.LastEntry().Level)
	f.reporter.AssertExpectations(t)
}

func TestDispatcher_EndUnknownIdentifier(t *testing.T) {
	f := newFixture()
	f.reporter.On("Send", EventEnd, mock.Anything).Once()

	f.d.End(surface, []RawPoint{{Identifier: 9}})

	assert.Empty(t, f.canvas.calls)
	assert.Equal(t, "can't figure out which touch to end", f.hook.LastEntry().Message)
	f.reporter.AssertExpectations(t)
}

func TestDispatcher_CancelUnknownIdentifierStillReports(t *testing.T) {
	f := newFixture()
	f.d.Registry().Insert(Touch{Identifier: 1, X: 5, Y: 5})
	batch := []Touch{{Identifier: 4, X: 3, Y: 3}}
	f.reporter.On("Send", EventCancel, batch).Once()

	got := f.d.Cancel(surface, []RawPoint{{Identifier: 4, ClientX: 3, ClientY: 3}})

	assert.Equal(t, batch, got)
	assert.Equal(t, []Touch{{Identifier: 1, X: 5, Y: 5}}, f.d.Registry().Touches(), "registry 不变")
	assert.Empty(t, f.canvas.calls)
	f.reporter.AssertExpectations(t)
}

func TestDispatcher_CancelRemovesWithoutDrawing(t *testing.T) {
	f := newFixture()
	f.d.Registry().Insert(Touch{Identifier: 1})
	f.d.Registry().Insert(Touch{Identifier: 2})
	f.reporter.On("Send", EventCancel, mock.Anything).Once()

	f.d.Cancel(surface, []RawPoint{{Identifier: 1}})

	assert.Equal(t, []Touch{{Identifier: 2}}, f.d.Registry().Touches())
	assert.Empty(t, f.canvas.calls)
}

func TestDispatcher_RegistryInvariantAcrossBatches(t *testing.T) {
	f := newFixture()
	f.reporter.On("Send", mock.Anything, mock.Anything)

	f.d.Start(surface, []RawPoint{{Identifier: 1}, {Identifier: 2}, {Identifier: 3}})
	f.d.Start(surface, []RawPoint{{Identifier: 2, ClientX: 50}}) // 重复 start
	f.d.End(surface, []RawPoint{{Identifier: 1}})
	f.d.Cancel(surface, []RawPoint{{Identifier: 3}, {Identifier: 3}})
	f.d.Start(surface, []RawPoint{{Identifier: 1, ClientX: 7}}) // 标识符被复用

	got := f.d.Registry().Touches()
	assert.Equal(t, []Touch{{Identifier: 2, X: 50}, {Identifier: 1, X: 7}}, got)
}

func TestDispatcher_HandleRoutesByEvent(t *testing.T) {
	f := newFixture()
	f.reporter.On("Send", mock.Anything, mock.Anything)

	f.d.Handle(EventStart, surface, []RawPoint{{Identifier: 5, ClientX: 1, ClientY: 2}})
	assert.Equal(t, 1, f.d.Registry().Len())
	f.d.Handle(EventCancel, surface, []RawPoint{{Identifier: 5}})
	assert.Equal(t, 0, f.d.Registry().Len())

	assert.Nil(t, f.d.Handle(Event("bogus"), surface, nil))
	f.reporter.AssertNumberOfCalls(t, "Send", 2)
}

func TestDispatcher_NilReporter(t *testing.T) {
	canvas := &recordingCanvas{}
	d := NewDispatcher(NewRegistry(), NewRenderer(canvas), nil, nil)

	assert.NotPanics(t, func() {
		d.Start(surface, []RawPoint{{Identifier: 1}})
		d.End(surface, []RawPoint{{Identifier: 1}})
	})
}

package di

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type Logger interface {
	Log(msg string) string
}

type ConsoleLogger struct {
	Prefix string
}

func (l *ConsoleLogger) Log(msg string) string {
	return l.Prefix + msg
}

type FileLogger struct {
	Path string
}

func (l *FileLogger) Log(msg string) string {
	return l.Path + ": " + msg
}

type Widget struct {
	Logger Logger
	Size   int
}

func NewWidget(logger Logger) *Widget {
	return &Widget{Logger: logger, Size: 1}
}

func NewSizedWidget(logger Logger, size int) *Widget {
	return &Widget{Logger: logger, Size: size}
}

type Clock interface {
	Now() time.Time
}

type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.t
}

type mockCloser struct {
	Closed int
	Err    error
}

func (m *mockCloser) Close() error {
	m.Closed++
	return m.Err
}

type mockDisposer struct {
	Disposed int
}

func (m *mockDisposer) Dispose() error {
	m.Disposed++
	return nil
}

type panicDisposer struct {
	// padding so that the type is not zero size
	_ int
}

func (m *panicDisposer) Dispose() error {
	panic("dispose panic")
}

type cycleA struct {
	B *cycleB
}

type cycleB struct {
	A *cycleA
}

func newCycleA(b *cycleB) *cycleA { return &cycleA{B: b} }
func newCycleB(a *cycleA) *cycleB { return &cycleB{A: a} }

type Repository[T any] struct {
	Items []T
}

type User struct {
	Name string
}

type Service struct {
	Widget *Widget
	Clock  Clock
}

func NewService(widget *Widget, clock Clock) *Service {
	return &Service{Widget: widget, Clock: clock}
}

var errBuild = errors.New("build error")

func failingConstructor() (*mockDisposer, error) {
	return nil, errBuild
}

// newTestCatalog returns a catalog with the constructors of the mock types.
func newTestCatalog(t *testing.T) *Catalog {
	cat := NewCatalog("test")

	err := cat.Add(
		MustConstructor(NewWidget, "logger"),
		MustConstructor(NewSizedWidget, "logger", "size"),
		MustConstructor(NewService, "widget", "clock"),
		newCycleA,
		newCycleB,
	)
	require.Nil(t, err)

	return cat
}

// newTestContainer returns a root container using newTestCatalog.
func newTestContainer(t *testing.T, opts ...Option) Container {
	c, err := New(append([]Option{WithCatalog(newTestCatalog(t))}, opts...)...)
	require.Nil(t, err)
	return c
}

type clockLogger struct {
	Clock Clock
}

func newClockLogger(clock Clock) *clockLogger {
	return &clockLogger{Clock: clock}
}

func (l *clockLogger) Log(msg string) string {
	return l.Clock.Now().Format("15:04:05") + " " + msg
}

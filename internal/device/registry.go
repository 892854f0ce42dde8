package device

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/martinclaus/sensorflow/internal/frame"
	"github.com/martinclaus/sensorflow/internal/lineproto"
)

// Frame is a decoded record that can be rendered for output.
type Frame interface {
	fmt.Stringer
	Point() *lineproto.Point
}

// Reader yields frames from one byte source.
type Reader interface {
	ReadFrame(ctx context.Context) (Frame, error)
	Discarded() uint64
}

// Driver builds readers for one gateway protocol.
type Driver interface {
	Name() string
	NewReader(src io.Reader, opts ...frame.Option) Reader
}

var (
	regMu    sync.RWMutex
	registry = map[string]Driver{}
)

// Register stores a driver under its name. Registering the same name twice
// replaces the earlier driver.
func Register(drv Driver) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[strings.ToLower(drv.Name())] = drv
}

// Lookup returns the driver registered under name (case-insensitive).
func Lookup(name string) (Driver, error) {
	regMu.RLock()
	defer regMu.RUnlock()
	if drv, ok := registry[strings.ToLower(strings.TrimSpace(name))]; ok {
		return drv, nil
	}
	return nil, fmt.Errorf("driver not found for input %q", name)
}

// Names lists the registered drivers in sorted order.
func Names() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

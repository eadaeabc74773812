package closer

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/meverselabs/kekfork/common/rlog"
)

// Closer is Closer inferface
type Closer interface {
	Close()
}

// Func adapts a function to a Closer
type Func func()

// Close calls f
func (f Func) Close() {
	f()
}

// Manager closes the registered closers in reverse order of registration
type Manager struct {
	sync.Mutex
	isClosed bool
	names    []string
	closers  []Closer
	wg       sync.WaitGroup
}

// NewManager returns a Manager
func NewManager() *Manager {
	cm := &Manager{}
	cm.wg.Add(1)
	return cm
}

// IsClosed returns it is closed or not
func (cm *Manager) IsClosed() bool {
	cm.Lock()
	defer cm.Unlock()
	return cm.isClosed
}

// Add adds a closer with a name
func (cm *Manager) Add(name string, c Closer) {
	cm.Lock()
	defer cm.Unlock()
	cm.names = append(cm.names, name)
	cm.closers = append(cm.closers, c)
}

// Names returns the registered names
func (cm *Manager) Names() []string {
	cm.Lock()
	defer cm.Unlock()
	return append([]string{}, cm.names...)
}

// CloseAll closes all closers once
func (cm *Manager) CloseAll() {
	cm.Lock()
	if cm.isClosed {
		cm.Unlock()
		return
	}
	cm.isClosed = true
	names, closers := cm.names, cm.closers
	cm.Unlock()

	for i := len(closers) - 1; i >= 0; i-- {
		rlog.Println("Close", names[i])
		closers[i].Close()
	}
	cm.wg.Done()
}

// Wait waits close all
func (cm *Manager) Wait() {
	cm.wg.Wait()
}

// CloseOnSignal closes all closers when the process is interrupted
func (cm *Manager) CloseOnSignal() {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
	go func() {
		<-sigc
		cm.CloseAll()
	}()
}

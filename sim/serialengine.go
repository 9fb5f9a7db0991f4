package sim

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/sarchlab/stdp/hooking"
)

var (
	// HookPosBeforeEvent fires before an event is handled.
	HookPosBeforeEvent = &hooking.HookPos{Name: "BeforeEvent"}

	// HookPosAfterEvent fires after an event is handled.
	HookPosAfterEvent = &hooking.HookPos{Name: "AfterEvent"}
)

// SerialEngine handles events one after another in time order.
type SerialEngine struct {
	*hooking.HookableBase

	lock           sync.Mutex
	now            VTimeInStep
	nextSeq        uint64
	queue          *eventQueue
	secondaryQueue *eventQueue

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex
}

// NewSerialEngine creates a SerialEngine.
func NewSerialEngine() *SerialEngine {
	return &SerialEngine{
		HookableBase:   hooking.NewHookableBase(),
		queue:          newEventQueue(),
		secondaryQueue: newEventQueue(),
	}
}

// Schedule registers an event. Scheduling an event in the past panics.
func (e *SerialEngine) Schedule(evt ScheduledEvent) {
	e.lock.Lock()
	defer e.lock.Unlock()

	if evt.Time < e.now {
		panic(fmt.Sprintf(
			"sim: cannot schedule event in the past, evt %s @ %d, now %d",
			reflect.TypeOf(evt.Event), evt.Time, e.now,
		))
	}

	evt.seq = e.nextSeq
	e.nextSeq++

	if evt.IsSecondary {
		e.secondaryQueue.Push(&evt)
		return
	}

	e.queue.Push(&evt)
}

// CurrentTime returns the time of the event being handled.
func (e *SerialEngine) CurrentTime() VTimeInStep {
	e.lock.Lock()
	defer e.lock.Unlock()

	return e.now
}

// Run handles events until none are left. It stops at the first handler
// error and returns it.
func (e *SerialEngine) Run() error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	for {
		e.pauseLock.Lock()

		evt := e.nextEvent()
		if evt == nil {
			e.pauseLock.Unlock()
			return nil
		}

		err := e.handle(evt)

		e.pauseLock.Unlock()

		if err != nil {
			return err
		}
	}
}

func (e *SerialEngine) handle(evt *ScheduledEvent) error {
	hookCtx := hooking.HookCtx{
		Domain: e,
		Pos:    HookPosBeforeEvent,
		Item:   evt,
	}
	e.InvokeHook(hookCtx)

	var err error
	if evt.Handler != nil {
		err = evt.Handler.Handle(evt.Event)
	}

	hookCtx.Pos = HookPosAfterEvent
	e.InvokeHook(hookCtx)

	return err
}

func (e *SerialEngine) nextEvent() *ScheduledEvent {
	e.lock.Lock()
	defer e.lock.Unlock()

	var evt *ScheduledEvent

	primary := e.queue.Peek()
	secondary := e.secondaryQueue.Peek()

	switch {
	case primary == nil && secondary == nil:
		return nil
	case secondary == nil:
		evt = e.queue.Pop()
	case primary == nil:
		evt = e.secondaryQueue.Pop()
	case primary.Time <= secondary.Time:
		evt = e.queue.Pop()
	default:
		evt = e.secondaryQueue.Pop()
	}

	e.now = evt.Time

	return evt
}

// Pause stops the engine from handling more events until Continue is called.
func (e *SerialEngine) Pause() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if e.isPaused {
		return
	}

	e.pauseLock.Lock()
	e.isPaused = true
}

// Continue resumes a paused engine.
func (e *SerialEngine) Continue() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if !e.isPaused {
		return
	}

	e.pauseLock.Unlock()
	e.isPaused = false
}

// Pending returns the number of events not yet handled.
func (e *SerialEngine) Pending() int {
	e.lock.Lock()
	defer e.lock.Unlock()

	return e.queue.Len() + e.secondaryQueue.Len()
}

var _ EventScheduler = (*SerialEngine)(nil)

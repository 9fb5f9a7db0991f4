package sim_test

import (
	"bytes"
	"errors"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/stdp/hooking"
	"github.com/sarchlab/stdp/sim"
)

type labelEvent struct {
	label string
}

type recordingHandler struct {
	engine   *sim.SerialEngine
	calls    []string
	times    []sim.VTimeInStep
	schedule map[string][]sim.ScheduledEvent
	fail     map[string]error
}

func (h *recordingHandler) Handle(event any) error {
	evt := event.(*labelEvent)
	h.calls = append(h.calls, evt.label)
	h.times = append(h.times, h.engine.CurrentTime())

	for _, next := range h.schedule[evt.label] {
		h.engine.Schedule(next)
	}

	return h.fail[evt.label]
}

type countingHook struct {
	before, after int
}

func (h *countingHook) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosBeforeEvent:
		h.before++
	case sim.HookPosAfterEvent:
		h.after++
	}
}

var _ = Describe("SerialEngine", func() {
	var (
		engine  *sim.SerialEngine
		handler *recordingHandler
	)

	at := func(label string, t sim.VTimeInStep, secondary bool) sim.ScheduledEvent {
		return sim.ScheduledEvent{
			Event:       &labelEvent{label: label},
			Time:        t,
			Handler:     handler,
			IsSecondary: secondary,
		}
	}

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		handler = &recordingHandler{
			engine:   engine,
			schedule: map[string][]sim.ScheduledEvent{},
			fail:     map[string]error{},
		}
	})

	It("should handle events in time order", func() {
		handler.schedule["b"] = []sim.ScheduledEvent{at("c", 3, false), at("d", 5, false)}

		engine.Schedule(at("a", 4, false))
		engine.Schedule(at("b", 2, false))

		Expect(engine.Run()).To(Succeed())
		Expect(handler.calls).To(Equal([]string{"b", "c", "a", "d"}))
		Expect(handler.times).To(Equal([]sim.VTimeInStep{2, 3, 4, 5}))
	})

	It("should keep scheduling order among equal times", func() {
		for _, l := range []string{"p0", "p1", "p2", "p3", "p4", "p5"} {
			engine.Schedule(at(l, 7, false))
		}

		Expect(engine.Run()).To(Succeed())
		Expect(handler.calls).To(Equal([]string{"p0", "p1", "p2", "p3", "p4", "p5"}))
	})

	It("should handle secondary events after primary ones", func() {
		engine.Schedule(at("late", 2, true))
		engine.Schedule(at("x", 2, false))
		engine.Schedule(at("y", 2, false))
		engine.Schedule(at("early", 1, true))

		Expect(engine.Run()).To(Succeed())
		Expect(handler.calls).To(Equal([]string{"early", "x", "y", "late"}))
	})

	It("should panic when scheduling in the past", func() {
		handler.schedule["a"] = []sim.ScheduledEvent{at("b", 1, false)}
		engine.Schedule(at("a", 5, false))

		Expect(func() { _ = engine.Run() }).To(Panic())
	})

	It("should stop at the first handler error", func() {
		boom := errors.New("boom")
		handler.fail["b"] = boom

		engine.Schedule(at("a", 1, false))
		engine.Schedule(at("b", 2, false))
		engine.Schedule(at("c", 3, false))

		Expect(engine.Run()).To(MatchError(boom))
		Expect(handler.calls).To(Equal([]string{"a", "b"}))
		Expect(engine.Pending()).To(Equal(1))
	})

	It("should invoke hooks around every event", func() {
		hook := &countingHook{}
		engine.AcceptHook(hook)

		engine.Schedule(at("a", 1, false))
		engine.Schedule(at("b", 1, true))

		Expect(engine.Run()).To(Succeed())
		Expect(hook.before).To(Equal(2))
		Expect(hook.after).To(Equal(2))
	})

	It("should pause and continue", func() {
		engine.Schedule(at("a", 1, false))
		engine.Pause()
		engine.Pause()

		done := make(chan error)
		go func() { done <- engine.Run() }()

		Consistently(done).ShouldNot(Receive())
		engine.Continue()
		Eventually(done).Should(Receive(BeNil()))
		Expect(handler.calls).To(Equal([]string{"a"}))
	})
})

var _ = Describe("EventLogger", func() {
	It("should log events before they are handled", func() {
		engine := sim.NewSerialEngine()
		buf := &bytes.Buffer{}
		engine.AcceptHook(sim.NewEventLogger(log.New(buf, "", 0)))

		handler := &recordingHandler{engine: engine}
		engine.Schedule(sim.ScheduledEvent{
			Event:   &labelEvent{label: "a"},
			Time:    3,
			Handler: handler,
		})

		Expect(engine.Run()).To(Succeed())
		Expect(buf.String()).To(Equal("3, &{a} -> *sim_test.recordingHandler\n"))
	})
})

package replay_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/stdp/hooking"
	"github.com/sarchlab/stdp/replay"
	"github.com/sarchlab/stdp/timing"
)

type hookLog struct {
	spikes  []replay.Spike
	updates []hooking.HookCtx
}

func (h *hookLog) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case replay.HookPosSpike:
		h.spikes = append(h.spikes, ctx.Item.(replay.Spike))
	case timing.HookPosPotentiation, timing.HookPosDepression:
		h.updates = append(h.updates, ctx)
	}
}

func oneSynapse(rule string, pre, post []uint32) *replay.Experiment {
	exp := replay.Defaults()
	exp.Rule = rule
	exp.Weight.APlus = 0.5
	exp.Weight.AMinus = 0.25
	exp.Synapses = []replay.SynapseConfig{{Pre: 0, Post: 0, Weight: 0.25}}
	exp.PreSpikes = map[int][]uint32{0: pre}
	exp.PostSpikes = map[int][]uint32{0: post}

	return &exp
}

var _ = Describe("Simulation", func() {
	It("should potentiate when the presynaptic spike comes first", func() {
		results, err := replay.Run(oneSynapse(replay.RulePair,
			[]uint32{10}, []uint32{15}))

		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(1))
		Expect(results[0].InitialWeight).To(Equal(0.25))
		Expect(results[0].FinalWeight).To(Equal(1309.0 / 2048))
	})

	It("should depress when the postsynaptic spike comes first", func() {
		results, err := replay.Run(oneSynapse(replay.RulePair,
			[]uint32{15}, []uint32{10}))

		Expect(err).NotTo(HaveOccurred())
		Expect(results[0].FinalWeight).To(Equal(114.0 / 2048))
	})

	It("should flush the presynaptic trace at the end of the run", func() {
		results, err := replay.Run(oneSynapse(replay.RulePair,
			[]uint32{10}, []uint32{15}))

		Expect(err).NotTo(HaveOccurred())
		Expect(results[0].PreTrace).To(Equal(timing.PreTrace(1517)))
	})

	It("should ignore coincident spikes", func() {
		results, err := replay.Run(oneSynapse(replay.RulePair,
			[]uint32{10}, []uint32{10}))

		Expect(err).NotTo(HaveOccurred())
		Expect(results[0].FinalWeight).To(Equal(0.25))
	})

	It("should need a postsynaptic pair before triplet potentiation", func() {
		results, err := replay.Run(oneSynapse(replay.RuleTriplet,
			[]uint32{10}, []uint32{15, 20}))

		Expect(err).NotTo(HaveOccurred())
		Expect(results[0].FinalWeight).To(Equal(995.0 / 2048))
	})

	It("should expose the loaded tables", func() {
		s, err := replay.New(oneSynapse(replay.RuleTriplet,
			[]uint32{10}, []uint32{15}))

		Expect(err).NotTo(HaveOccurred())
		Expect(s.Tables).To(HaveLen(3))
		Expect(s.Tables[1].Name()).To(Equal("tau_y1"))
		Expect(s.Tables[0].Lookup(5)).To(Equal(int32(1595)))
		for i, table := range s.Learner.Tables() {
			Expect(s.Tables[i]).To(BeIdenticalTo(table))
		}
		Expect(s.End()).To(Equal(timing.Time(16)))
		Expect(s.Engine.Pending()).To(Equal(2))
	})

	It("should flush at the configured duration", func() {
		exp := oneSynapse(replay.RulePair, []uint32{10}, []uint32{15})
		exp.Duration = 100

		s, err := replay.New(exp)

		Expect(err).NotTo(HaveOccurred())
		Expect(s.End()).To(Equal(timing.Time(100)))
	})

	It("should flush after the last spike when the duration is earlier", func() {
		exp := oneSynapse(replay.RulePair, []uint32{10}, []uint32{15})
		exp.Duration = 12

		s, err := replay.New(exp)

		Expect(err).NotTo(HaveOccurred())
		Expect(s.End()).To(Equal(timing.Time(16)))
	})

	It("should fail on an unsupported timestep", func() {
		exp := oneSynapse(replay.RulePair, []uint32{10}, []uint32{15})
		exp.TimestepUS = 100

		_, err := replay.New(exp)

		Expect(err).To(HaveOccurred())
	})

	It("should report spikes and updates to hooks", func() {
		s, err := replay.New(oneSynapse(replay.RulePair,
			[]uint32{10}, []uint32{15}))
		Expect(err).NotTo(HaveOccurred())

		log := &hookLog{}
		s.Learner.AcceptHook(log)

		_, err = s.Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(log.spikes).To(Equal([]replay.Spike{
			{Side: replay.Pre, Neuron: 0, Time: 10},
			{Side: replay.Post, Neuron: 0, Time: 15},
		}))
		Expect(log.updates).To(HaveLen(2))
		Expect(log.updates[0].Pos).To(Equal(timing.HookPosDepression))
		Expect(log.updates[1].Pos).To(Equal(timing.HookPosPotentiation))
		Expect(log.updates[1].Detail).To(Equal(0))
		Expect(log.updates[1].Item).To(Equal(timing.Update{
			Time: 15, Delta: 5, Magnitude: 1595,
		}))
	})
})

var _ = Describe("Dispatcher", func() {
	var (
		exp *replay.Experiment
		d   replay.Learner
	)

	BeforeEach(func() {
		exp = replay.Defaults().WithSynapses(
			replay.SynapseConfig{Pre: 0, Post: 1, Weight: 0.5},
			replay.SynapseConfig{Pre: 2, Post: 1, Weight: 0.5},
		)

		s, err := replay.New(exp)
		Expect(err).NotTo(HaveOccurred())
		d = s.Learner
	})

	It("should apply a postsynaptic spike to every incoming synapse", func() {
		Expect(d.Deliver(replay.Spike{Side: replay.Pre, Neuron: 0, Time: 1})).To(Succeed())
		Expect(d.Deliver(replay.Spike{Side: replay.Pre, Neuron: 2, Time: 2})).To(Succeed())
		Expect(d.Deliver(replay.Spike{Side: replay.Post, Neuron: 1, Time: 3})).To(Succeed())

		views := d.Synapses()
		Expect(views).To(HaveLen(2))
		Expect(views[0].LastPreTime).To(Equal(timing.Time(1)))
		Expect(views[0].LastPreTrace).To(Equal(timing.PreTrace(2048)))
		Expect(views[0].State.Potentiation).To(BeNumerically(">", 0))
		Expect(views[1].State.Potentiation).
			To(BeNumerically(">", views[0].State.Potentiation))
		Expect(views[0].Weight).To(BeNumerically(">", 0.5))
	})

	It("should only touch synapses of the spiking neuron", func() {
		Expect(d.Deliver(replay.Spike{Side: replay.Pre, Neuron: 2, Time: 4})).To(Succeed())

		v, ok := d.Synapse(0)
		Expect(ok).To(BeTrue())
		Expect(v.LastPreTime).To(Equal(timing.Time(0)))

		v, ok = d.Synapse(1)
		Expect(ok).To(BeTrue())
		Expect(v.LastPreTime).To(Equal(timing.Time(4)))
	})

	It("should ignore spikes of unknown neurons", func() {
		Expect(d.Deliver(replay.Spike{Side: replay.Post, Neuron: 9, Time: 4})).To(Succeed())
		Expect(d.Deliver(replay.Spike{Side: replay.Pre, Neuron: 9, Time: 4})).To(Succeed())
	})

	It("should reject unknown events", func() {
		Expect(d.Handle("spike")).To(MatchError(ContainSubstring("string")))
		Expect(d.Handle(&replay.Spike{Side: replay.Pre, Neuron: 0, Time: 1})).To(Succeed())
	})

	It("should not find synapses out of range", func() {
		_, ok := d.Synapse(2)
		Expect(ok).To(BeFalse())
		_, ok = d.Synapse(-1)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Sweep", func() {
	It("should potentiate causal pairings and depress acausal ones", func() {
		base := replay.Defaults()
		base.Weight.APlus = 0.01
		base.Weight.AMinus = 0.01

		points, err := replay.Sweep(base,
			replay.Pairing{Pairs: 10, Start: 100, Weight: 0.5},
			[]float64{20}, []int{-10, 10})

		Expect(err).NotTo(HaveOccurred())
		Expect(points).To(HaveLen(2))
		Expect(points[0].DeltaT).To(Equal(-10))
		Expect(points[0].Change).To(BeNumerically("<", 0))
		Expect(points[1].DeltaT).To(Equal(10))
		Expect(points[1].Change).To(BeNumerically(">", 0))
	})
})

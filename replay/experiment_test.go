package replay_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/stdp/replay"
)

var _ = Describe("Experiment", func() {
	It("should fill in defaults", func() {
		exp, err := replay.Parse([]byte(`
synapses:
  - {pre: 0, post: 0, weight: 0.5}
`))

		Expect(err).NotTo(HaveOccurred())
		Expect(exp.Rule).To(Equal(replay.RulePair))
		Expect(exp.TauX).To(Equal(20.0))
		Expect(exp.LUTSize).To(Equal(256))
		Expect(exp.TimestepUS).To(Equal(1000))
		Expect(exp.OrderPolicy).To(Equal("wrap"))
		Expect(exp.Weight.Kind).To(Equal(replay.WeightAdditive))
		Expect(exp.Layout()).To(HaveLen(2))
	})

	It("should decode a triplet experiment", func() {
		exp, err := replay.Parse([]byte(`
rule: triplet
tau_x: 16.8
tau_y1: 33.7
tau_y2: 114
lut_size: 512
lut_shift: 1
order_policy: clamp
weight: {kind: multiplicative, w_min: 0, w_max: 2, a_plus: 0.1, a_minus: 0.1}
synapses:
  - {pre: 0, post: 1, weight: 1}
pre_spikes:
  0: [1, 5]
post_spikes:
  1: [3]
`))

		Expect(err).NotTo(HaveOccurred())
		Expect(exp.Rule).To(Equal(replay.RuleTriplet))
		Expect(exp.TimeConstants()).To(Equal([]float64{16.8, 33.7, 114}))
		Expect(exp.PreSpikes[0]).To(Equal([]uint32{1, 5}))
		Expect(exp.PostSpikes[1]).To(Equal([]uint32{3}))

		layout := exp.Layout()
		Expect(layout).To(HaveLen(3))
		Expect(layout[2].Name).To(Equal("tau_y2"))
		Expect(layout[2].Size).To(Equal(512))
		Expect(layout[2].Shift).To(Equal(uint(1)))

		tables, err := exp.Tables()
		Expect(err).NotTo(HaveOccurred())
		Expect(tables).To(HaveLen(3))
		Expect(tables[0].Lookup(0)).To(Equal(int32(2048)))
	})

	It("should generate the trains of a pairing protocol", func() {
		exp, err := replay.Parse([]byte(`
pairing: {frequency: 20, pairs: 2, delta_t: 10, start: 100, weight: 0.5}
`))

		Expect(err).NotTo(HaveOccurred())
		Expect(exp.Synapses).To(Equal([]replay.SynapseConfig{
			{Pre: 0, Post: 0, Weight: 0.5},
		}))
		Expect(exp.PreSpikes[0]).To(Equal([]uint32{99, 149, 199}))
		Expect(exp.PostSpikes[0]).To(Equal([]uint32{110, 160}))
	})

	It("should reject pairings that start before time zero", func() {
		_, err := replay.Parse([]byte(`
pairing: {frequency: 20, pairs: 2, delta_t: -10, start: 5, weight: 0.5}
`))

		Expect(err).To(MatchError(ContainSubstring("precedes time 0")))
	})

	It("should reject pairings without a frequency", func() {
		_, err := replay.Parse([]byte(`
pairing: {pairs: 2, delta_t: 10, start: 100}
`))

		Expect(err).To(MatchError(ContainSubstring("frequency")))
	})

	It("should reject invalid experiments", func() {
		_, err := replay.Parse([]byte(`
rule: quadruplet
order_policy: sometimes
weight: {kind: additive, w_min: 2, w_max: 1}
`))

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unknown rule"))
		Expect(err.Error()).To(ContainSubstring("w_min"))
		Expect(err.Error()).To(ContainSubstring("no synapses"))
		Expect(err.Error()).To(ContainSubstring("sometimes"))
	})

	It("should report malformed YAML", func() {
		_, err := replay.Parse([]byte("rule: [pair"))

		Expect(err).To(MatchError(ContainSubstring("parse experiment")))
	})

	It("should load from a file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "exp.yaml")
		Expect(os.WriteFile(path, []byte(`
synapses:
  - {pre: 3, post: 4, weight: 0.1}
`), 0o644)).To(Succeed())

		exp, err := replay.Load(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(exp.Synapses[0].Pre).To(Equal(3))
	})
})

var _ = Describe("FixedFrequency", func() {
	It("should space spikes by the interspike interval", func() {
		Expect(replay.FixedFrequency(20, 99, 3)).To(Equal([]uint32{99, 149, 199}))
		Expect(replay.FixedFrequency(40, 0, 2)).To(Equal([]uint32{0, 25}))
	})

	It("should truncate the interval to whole milliseconds", func() {
		Expect(replay.FixedFrequency(30, 0, 3)).To(Equal([]uint32{0, 33, 66}))
	})
})

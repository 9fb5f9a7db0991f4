package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sarchlab/stdp/datarecording"
	"github.com/sarchlab/stdp/monitoring"
	"github.com/sarchlab/stdp/replay"
	"github.com/sarchlab/stdp/sim"
	"github.com/sarchlab/stdp/timing"
)

type replayFlags struct {
	record     string
	clickhouse string
	monitor    bool
	port       int
	open       bool
	verbose    bool
	logEvents  bool
}

func newReplayCmd() *cobra.Command {
	flags := &replayFlags{}

	cmd := &cobra.Command{
		Use:   "replay EXPERIMENT",
		Short: "Replay the spike trains of an experiment file.",
		Long: `Replay loads a YAML experiment, delivers its spikes in time order ` +
			`and prints the final weight of every synapse as CSV.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.fromEnv(cmd)

			exp, err := replay.Load(args[0])
			if err != nil {
				return err
			}

			results, err := runReplay(cmd, flags, args[0], exp)
			if err != nil {
				return err
			}

			return writeResults(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().StringVar(&flags.record, "record", "",
		"record spikes and updates into this SQLite file (without extension)")
	cmd.Flags().StringVar(&flags.clickhouse, "clickhouse", "",
		"record into ClickHouse with this DSN instead of SQLite")
	cmd.Flags().BoolVar(&flags.monitor, "monitor", false,
		"serve the replay monitor")
	cmd.Flags().IntVar(&flags.port, "port", 0, "monitor port, random if unset")
	cmd.Flags().BoolVar(&flags.open, "open", false,
		"open the monitor in a browser")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false,
		"log every trace refresh and weight update to stderr")
	cmd.Flags().BoolVar(&flags.logEvents, "log-events", false,
		"log every event the engine handles to stderr")

	return cmd
}

func (f *replayFlags) fromEnv(cmd *cobra.Command) {
	if !cmd.Flags().Changed("record") {
		f.record = os.Getenv(envRecordPath)
	}

	if !cmd.Flags().Changed("clickhouse") {
		f.clickhouse = os.Getenv(envClickHouse)
	}

	if !cmd.Flags().Changed("port") {
		if port, err := strconv.Atoi(os.Getenv(envMonitorPort)); err == nil {
			f.port = port
		}
	}
}

func runReplay(
	cmd *cobra.Command,
	flags *replayFlags,
	path string,
	exp *replay.Experiment,
) ([]replay.Result, error) {
	s, err := replay.New(exp)
	if err != nil {
		return nil, err
	}

	if flags.verbose {
		logger := log.New(cmd.ErrOrStderr(), "", 0)
		s.Learner.AcceptHook(timing.NewTraceLogger(logger))
	}

	if flags.logEvents {
		logger := log.New(cmd.ErrOrStderr(), "", 0)
		s.Engine.AcceptHook(sim.NewEventLogger(logger))
	}

	recorder, exec, err := startRecording(flags, path, exp)
	if err != nil {
		return nil, err
	}

	if recorder != nil {
		s.Learner.AcceptHook(datarecording.NewUpdateRecorder(recorder))
	}

	if flags.monitor || flags.open {
		if err := startMonitor(flags, s); err != nil {
			return nil, err
		}
	}

	results, err := s.Run()

	if recorder != nil {
		exec.End()

		if closeErr := recorder.Close(); err == nil {
			err = closeErr
		}
	}

	return results, err
}

func startRecording(
	flags *replayFlags,
	path string,
	exp *replay.Experiment,
) (datarecording.DataRecorder, *datarecording.ExecRecorder, error) {
	var config datarecording.RecorderConfig

	switch {
	case flags.clickhouse != "":
		config = datarecording.RecorderConfig{
			Type:    "clickhouse",
			ConnStr: flags.clickhouse,
		}
	case flags.record != "":
		config = datarecording.RecorderConfig{Path: flags.record}
	default:
		return nil, nil, nil
	}

	recorder, err := datarecording.NewWithConfig(config)
	if err != nil {
		return nil, nil, err
	}

	exec := datarecording.NewExecRecorder(recorder)
	exec.Start()
	exec.Set("Experiment", path)
	exec.Set("Rule", exp.Rule)
	exec.Set("Order Policy", exp.OrderPolicy)

	return recorder, exec, nil
}

func startMonitor(flags *replayFlags, s *replay.Simulation) error {
	m := monitoring.NewMonitor().WithPortNumber(flags.port)
	m.RegisterSimulation(s)
	m.TrackEvents("spikes", uint64(s.Engine.Pending()))

	url, err := m.StartServer()
	if err != nil {
		return err
	}

	if flags.open {
		return monitoring.OpenInBrowser(url)
	}

	return nil
}

func writeResults(w io.Writer, results []replay.Result) error {
	out := csv.NewWriter(w)

	err := out.Write([]string{
		"synapse", "pre", "post", "initial_weight", "final_weight", "pre_trace",
	})
	if err != nil {
		return err
	}

	for _, r := range results {
		err := out.Write([]string{
			strconv.Itoa(r.Synapse),
			strconv.Itoa(r.Pre),
			strconv.Itoa(r.Post),
			formatWeight(r.InitialWeight),
			formatWeight(r.FinalWeight),
			strconv.Itoa(int(r.PreTrace)),
		})
		if err != nil {
			return err
		}
	}

	out.Flush()

	return out.Error()
}

func formatWeight(w float64) string {
	return fmt.Sprintf("%.6f", w)
}

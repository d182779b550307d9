package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dominant-strategies/go-quai/event"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/shreekarashastry/selfishmining/analysis"
	"github.com/shreekarashastry/selfishmining/config"
	"github.com/shreekarashastry/selfishmining/log"
	"github.com/shreekarashastry/selfishmining/output"
	"github.com/shreekarashastry/selfishmining/simulation"
	"github.com/shreekarashastry/selfishmining/store"
)

const (
	exitFailure  = 1
	exitBadInput = 2
)

var errUsage = errors.New("expected no positional arguments or exactly three: gamma sampleCount eventsPerCell")

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Global.Error(err)
		os.Exit(exitFailure)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "selfishmining",
		Usage:     "estimate the relative revenue of a selfish mining pool by Monte Carlo simulation",
		ArgsUsage: "[gamma sampleCount eventsPerCell]",
		Description: "Without positional arguments the reference scan over gamma in {0, 0.5, 1} is run.\n" +
			"With three positional arguments a single gamma curve is simulated.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "YAML configuration file"},
			&cli.Int64Flag{Name: "seed", Usage: "sampler seed, random when unset"},
			&cli.StringFlag{Name: "stream", Usage: "sampler stream layout: per-cell | shared"},
			&cli.StringFlag{Name: "on-degenerate", Usage: "what to do with cells that credit no revenue: abort | nan"},
			&cli.StringFlag{Name: "out", Usage: "data file written with one row per alpha"},
			&cli.StringFlag{Name: "plot", Usage: "plot image, empty to skip plotting"},
			&cli.BoolFlag{Name: "gnuplot", Usage: "plot with an external gnuplot process instead of in-process"},
			&cli.StringFlag{Name: "cache-db", Usage: "bolt database that keeps finished cells between runs"},
			&cli.StringFlag{Name: "log-level", Usage: "trace | debug | info | warn | error"},
			&cli.StringFlag{Name: "log-file", Usage: "also log to this rotated file"},
		},
		Action: runSweep,
	}
}

func runSweep(cctx *cli.Context) error {
	cfg, err := loadConfig(cctx)
	if errors.Is(err, errUsage) {
		_ = cli.ShowAppHelp(cctx)
		return cli.Exit(err.Error(), exitBadInput)
	}
	if err != nil {
		return badInput(err)
	}
	return execute(cfg)
}

// loadConfig layers defaults, the config file, flags and positional
// arguments, in that order.
func loadConfig(cctx *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := cctx.String("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cctx.IsSet("seed") {
		seed := cctx.Int64("seed")
		cfg.Sweep.Seed = &seed
	}
	if cctx.IsSet("stream") {
		cfg.Sweep.Stream = cctx.String("stream")
	}
	if cctx.IsSet("on-degenerate") {
		cfg.Sweep.OnDegenerate = cctx.String("on-degenerate")
	}
	if cctx.IsSet("out") {
		cfg.Output.Data = cctx.String("out")
	}
	if cctx.IsSet("plot") {
		cfg.Output.Plot = cctx.String("plot")
	}
	if cctx.IsSet("gnuplot") {
		cfg.Output.Gnuplot = cctx.Bool("gnuplot")
	}
	if cctx.IsSet("cache-db") {
		cfg.Cache.DB = cctx.String("cache-db")
	}
	if cctx.IsSet("log-level") {
		cfg.Log.Level = cctx.String("log-level")
	}
	if cctx.IsSet("log-file") {
		cfg.Log.File = cctx.String("log-file")
	}

	if err := applyPositional(cctx.Args().Slice(), cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyPositional switches cfg to single mode when gamma, sampleCount and
// eventsPerCell are given on the command line.
func applyPositional(args []string, cfg *config.Config) error {
	switch len(args) {
	case 0:
		return nil
	case 3:
	default:
		return errUsage
	}

	var errs simulation.RangeErrors
	gamma, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		errs = append(errs, simulation.RangeError{Field: "gamma", Value: args[0], Expected: "a number 0 <= gamma <= 1"})
	}
	sampleCount, err := strconv.Atoi(args[1])
	if err != nil {
		errs = append(errs, simulation.RangeError{
			Field:    "sample_count",
			Value:    args[1],
			Expected: fmt.Sprintf("an integer 1 <= sample_count <= %d", simulation.MaxSampleCount),
		})
	}
	events, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		errs = append(errs, simulation.RangeError{Field: "events_per_cell", Value: args[2], Expected: "an integer events_per_cell >= 0"})
	}
	if err := errs.Err(); err != nil {
		return err
	}

	cfg.Sweep.Mode = simulation.ModeSingle.String()
	cfg.Sweep.Gamma = gamma
	cfg.Sweep.SampleCount = sampleCount
	cfg.Sweep.EventsPerCell = events
	return nil
}

// badInput turns a configuration error into exit status 2: nothing was
// computed.
func badInput(err error) error {
	var errs simulation.RangeErrors
	if !errors.As(err, &errs) {
		return cli.Exit(err.Error(), exitBadInput)
	}
	var b strings.Builder
	b.WriteString("parameter out of range:")
	for _, e := range errs {
		fmt.Fprintf(&b, "\n  %s = %v, expected %s", e.Field, e.Value, e.Expected)
	}
	return cli.Exit(b.String(), exitBadInput)
}

func execute(cfg *config.Config) error {
	if err := log.Configure(cfg.Log); err != nil {
		return badInput(err)
	}
	sweepCfg, err := cfg.SimulationConfig()
	if err != nil {
		return err
	}

	cache, err := simulation.NewCellCache(cfg.Cache.Size)
	if err != nil {
		return err
	}
	opts := []simulation.Option{simulation.WithCache(cache)}
	if cfg.Cache.DB != "" {
		cells, err := store.Open(cfg.Cache.DB)
		if err != nil {
			return err
		}
		defer cells.Close()
		opts = append(opts, simulation.WithStore(cells))
	}

	sweep, err := simulation.NewSweep(sweepCfg, opts...)
	if err != nil {
		return badInput(err)
	}

	events := make(chan simulation.CellEvent, 64)
	sub := sweep.SubscribeCellEvents(events)
	done := make(chan struct{})
	go reportProgress(events, sub, done)

	report, err := sweep.Run()
	sub.Unsubscribe()
	<-done
	if err != nil {
		return err
	}

	if err := output.WriteFile(cfg.Output.Data, report.Matrix); err != nil {
		return err
	}
	log.Global.WithField("path", cfg.Output.Data).Info("Wrote result matrix")

	for _, dev := range analysis.Compare(report.Matrix) {
		log.Global.WithFields(logrus.Fields{
			"gamma":      dev.Gamma,
			"rows":       dev.Rows,
			"meanAbsErr": dev.MeanAbs,
			"maxAbsErr":  dev.MaxAbs,
			"profitable": dev.Profitable,
			"threshold":  analysis.Threshold(dev.Gamma),
		}).Info("Deviation from closed form")
	}

	return plot(cfg.Output, report.Matrix)
}

func plot(out config.OutputConfig, m *simulation.ResultMatrix) error {
	if out.Plot == "" {
		return nil
	}
	if out.Gnuplot {
		if err := output.Gnuplot(out.Data, out.Plot, m.Gammas()); err != nil {
			return xerrors.Errorf("plotting %s: %w", out.Plot, err)
		}
	} else if err := output.RenderPNG(m, out.Plot); err != nil {
		return xerrors.Errorf("plotting %s: %w", out.Plot, err)
	}
	log.Global.WithField("path", out.Plot).Info("Wrote plot")
	return nil
}

// reportProgress logs every cell at debug level and overall progress in
// steps of ten percent. Events still buffered when the subscription ends are
// logged before it returns.
func reportProgress(events <-chan simulation.CellEvent, sub event.Subscription, done chan<- struct{}) {
	defer close(done)
	p := progress{}
	for {
		select {
		case ev := <-events:
			p.log(ev)
		case <-sub.Err():
			for {
				select {
				case ev := <-events:
					p.log(ev)
				default:
					return
				}
			}
		}
	}
}

type progress struct {
	lastDecile int
}

func (p *progress) log(ev simulation.CellEvent) {
	log.Global.WithFields(logrus.Fields{
		"alpha":  ev.Result.Alpha,
		"gamma":  ev.Result.Gamma,
		"ratio":  ev.Ratio,
		"pool":   ev.Result.PoolRevenue,
		"others": ev.Result.OthersRevenue,
		"cached": ev.Cached,
	}).Debug("Cell finished")
	if decile := ev.Done * 10 / ev.Total; decile > p.lastDecile {
		p.lastDecile = decile
		log.Global.WithFields(logrus.Fields{
			"done":  ev.Done,
			"total": ev.Total,
		}).Infof("Sweep %d%% complete", decile*10)
	}
}

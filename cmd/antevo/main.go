package main

import (
	"context"
	goflag "flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"antevo/pkg/analysis"
	"antevo/pkg/config"
	"antevo/pkg/fitness"
	"antevo/pkg/runner"
	"antevo/pkg/simulator"
)

var (
	configPath  = flag.String("config", "./config.toml", "Run parameter file")
	seed        = flag.Int64("seed", 0, "Override the config seed (0 keeps the config value)")
	generations = flag.Int("generations", 0, "Override num_generations (0 keeps the config value)")
	outDir      = flag.String("out", "", "Override the report output directory")
)

func main() {
	klog.InitFlags(nil)
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		klog.Fatalf("Unable to load run config: %v", err)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *generations != 0 {
		cfg.NumGenerations = *generations
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}

	var source fitness.BeamSource
	if cfg.Simulator.Command == "" {
		klog.Info("no simulator command configured, using the surrogate beam model")
		surrogate := fitness.NewSurrogateSource()
		if cfg.Simulator.FreqStartMHz > 0 && cfg.Simulator.FreqStopMHz > cfg.Simulator.FreqStartMHz {
			surrogate.FreqStartMHz = cfg.Simulator.FreqStartMHz
			surrogate.FreqStopMHz = cfg.Simulator.FreqStopMHz
		}
		source = surrogate
	} else {
		client, err := simulator.NewClient(simulator.Config{
			Command:      cfg.Simulator.Command,
			Args:         cfg.Simulator.Args,
			MacroDir:     cfg.Simulator.MacroDir,
			ResultDir:    cfg.Simulator.ResultDir,
			PollInterval: time.Duration(cfg.Simulator.PollIntervalSec * float64(time.Second)),
			Timeout:      time.Duration(cfg.Simulator.TimeoutSec * float64(time.Second)),
			FreqStartMHz: cfg.Simulator.FreqStartMHz,
			FreqStopMHz:  cfg.Simulator.FreqStopMHz,
			FreqStepMHz:  cfg.Simulator.FreqStepMHz,
		})
		if err != nil {
			klog.Fatalf("Unable to create simulator client: %v", err)
		}
		source = &fitness.SimSource{Client: client}
	}

	mgr, err := runner.New(cfg, fitness.NewEvaluator(source))
	if err != nil {
		klog.Fatalf("Unable to create run manager: %v", err)
	}
	defer mgr.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	final, err := mgr.Run(ctx)
	if err != nil {
		klog.Fatalf("Run failed: %v", err)
	}

	front := analysis.ParetoFront(final)
	klog.Infof("final population: %d individuals, %d on the Pareto front", len(final), len(front))
}

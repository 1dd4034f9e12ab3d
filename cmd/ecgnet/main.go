// Package main trains and evaluates the 12-lead ECG classifier on a
// synthetic dataset.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/born-ml/ecgnet/internal/autodiff"
	"github.com/born-ml/ecgnet/internal/backend/cpu"
	"github.com/born-ml/ecgnet/internal/config"
	"github.com/born-ml/ecgnet/internal/dataset"
	"github.com/born-ml/ecgnet/internal/device"
	"github.com/born-ml/ecgnet/internal/nn"
	"github.com/born-ml/ecgnet/internal/optim"
	"github.com/born-ml/ecgnet/internal/resnet"
	"github.com/born-ml/ecgnet/internal/seed"
	"github.com/born-ml/ecgnet/internal/trainer"
)

const version = "v0.1.0"

type backendT = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		logrus.WithError(err).Fatal("run failed")
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("ecgnet", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfgPath := fs.String("config", "", "Path to YAML config (defaults are used when empty)")
	epochs := fs.Int("epochs", 0, "Number of training epochs")
	batchSize := fs.Int("batch-size", 0, "Batch size")
	lr := fs.Float64("lr", 0, "Learning rate")
	threshold := fs.Float64("threshold", 0, "Probability threshold for a positive label")
	seedFlag := fs.Int64("seed", 0, "PRNG seed")
	samples := fs.Int("samples", 0, "Number of synthetic recordings")
	length := fs.Int("length", 0, "Samples per lead")
	classes := fs.Int("classes", 0, "Number of labels")
	optimizer := fs.String("optimizer", "", "Optimizer: adam or sgd")
	workers := fs.Int("workers", 0, "Kernel worker goroutines (0 = one per logical core)")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error")
	showVersion := fs.Bool("version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *showVersion {
		fmt.Fprintf(stdout, "ecgnet %s\n", version)
		return nil
	}

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	cfg.ApplyOverrides(config.Overrides{
		Seed:      *seedFlag,
		Epochs:    *epochs,
		BatchSize: *batchSize,
		LR:        *lr,
		Threshold: *threshold,
		Optimizer: *optimizer,
		Samples:   *samples,
		Length:    *length,
		Classes:   *classes,
		Workers:   *workers,
		LogLevel:  *logLevel,
	})
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(level)
	log := logger.WithFields(logrus.Fields{"run_id": uuid.NewString(), "seed": cfg.Seed})

	streams := seed.Everything(cfg.Seed)

	dev := device.Select(cfg.Workers)
	fmt.Fprintf(stdout, "Training will take on %s\n", dev)
	log = log.WithField("device", dev.String())
	log.WithField("hardware", dev.Describe()).Info("device selected")

	backend := autodiff.New(cpu.NewWithConfig(dev.Parallel()))

	train, val, test, err := buildLoaders(cfg, streams)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"train_batches": train.Len(),
		"val_batches":   val.Len(),
		"test_batches":  test.Len(),
	}).Info("data ready")

	net := resnet.New(cfg.Model.Layers, cfg.Model.Classes, streams.Init, backend)
	log.WithFields(logrus.Fields{
		"layers":     cfg.Model.Layers,
		"classes":    cfg.Model.Classes,
		"parameters": nn.NumParameters(net.Parameters()),
	}).Info("model built")

	opt, err := optim.New(net.Parameters(), optim.Config{
		Name:        cfg.Optimizer.Name,
		LR:          float32(cfg.Optimizer.LR),
		Momentum:    float32(cfg.Optimizer.Momentum),
		WeightDecay: float32(cfg.Optimizer.WeightDecay),
	})
	if err != nil {
		return err
	}

	loopCfg := trainer.Config{
		Epochs:    cfg.Epochs,
		Threshold: float32(cfg.Threshold),
		Logger:    log,
	}
	history, err := trainer.Train[backendT](net, opt, train, val, backend, loopCfg, stdout)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	testLoss, err := trainer.Evaluate[backendT](net, test, backend, loopCfg.Threshold, stdout)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	log.WithFields(logrus.Fields{
		"final_train_loss": history.TrainLoss[len(history.TrainLoss)-1],
		"final_val_loss":   history.ValLoss[len(history.ValLoss)-1],
		"test_loss":        testLoss,
	}).Info("run complete")
	return nil
}

func buildLoaders(cfg *config.Config, streams seed.Streams) (train, val, test *dataset.MemoryLoader, err error) {
	samples, err := dataset.Synthetic(dataset.SyntheticConfig{
		Samples:    cfg.Data.Samples,
		Leads:      resnet.InputChannels,
		Length:     cfg.Data.Length,
		Classes:    cfg.Model.Classes,
		SampleRate: cfg.Data.SampleRate,
		Noise:      cfg.Data.Noise,
	}, streams.Data)
	if err != nil {
		return nil, nil, nil, err
	}

	trainSet, valSet, testSet, err := dataset.Split(samples, cfg.Data.ValFrac, cfg.Data.TestFrac, streams.Data)
	if err != nil {
		return nil, nil, nil, err
	}

	if train, err = dataset.NewMemoryLoader(trainSet, resnet.InputChannels, cfg.BatchSize, streams.Shuffle); err != nil {
		return nil, nil, nil, fmt.Errorf("train loader: %w", err)
	}
	if val, err = dataset.NewMemoryLoader(valSet, resnet.InputChannels, cfg.BatchSize, nil); err != nil {
		return nil, nil, nil, fmt.Errorf("val loader: %w", err)
	}
	if test, err = dataset.NewMemoryLoader(testSet, resnet.InputChannels, cfg.BatchSize, nil); err != nil {
		return nil, nil, nil, fmt.Errorf("test loader: %w", err)
	}
	return train, val, test, nil
}

package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/pbanos/grove"
	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/view"
	"github.com/pkg/errors"
)

// configuration parses the config flag over the default configuration.
func (rcc *rootCmdConfig) configuration() (grove.Config, error) {
	if rcc.config == "" {
		return grove.DefaultConfig(), nil
	}
	cfg, err := grove.ParseConfig([]byte(rcc.config))
	if err != nil {
		return grove.Config{}, errors.Wrap(err, "config flag")
	}
	return cfg, nil
}

// trainingData reads the CSV on r into a root view, returning it along with
// the class labels.
func (rcc *rootCmdConfig) trainingData(r io.Reader, seed int64) (*view.Data, []string, error) {
	opts := dataset.CSVOptions{Name: "stdin", Seed: seed}
	if rcc.metadata != "" {
		if err := dataset.ReadMetadata([]byte(rcc.metadata), &opts); err != nil {
			return nil, nil, errors.Wrap(err, "metadata flag")
		}
	}
	ds, labels, err := dataset.ReadCSV(r, opts)
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading training data")
	}
	return view.New(ds, seed), labels, nil
}

// interruptible returns a context that is cancelled on SIGINT.
func interruptible(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

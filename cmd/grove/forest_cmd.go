package main

import (
	"context"
	"fmt"

	"github.com/pbanos/grove"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

type forestCmdConfig struct {
	*rootCmdConfig
	trees int
}

func forestCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &forestCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "forest",
		Short: "Grow a random forest from a set of data",
		Long: `Grow a random forest from CSV data read on STDIN, whose last column is the
class to predict, and print its out-of-bag confusion matrix and accuracy.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.configuration()
			if err != nil {
				return err
			}
			if config.trees > 0 {
				cfg = cfg.With(grove.Trees(config.trees))
			}
			logger, err := config.logger()
			if err != nil {
				return errors.Wrap(err, "building logger")
			}
			defer logger.Sync()
			data, labels, err := config.trainingData(cmd.InOrStdin(), cfg.Seed)
			if err != nil {
				return err
			}
			ctx, cancel := interruptible(context.Background())
			defer cancel()
			f, err := grove.GrowForest(ctx, data, cfg.With(grove.Logger(logger)))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			stats := f.Stats()
			fmt.Fprintf(out, "trees: %d nodes: %d depth: %d\n", len(f.Trees()), stats.Nodes, stats.MaxDepth)
			fmt.Fprintf(out, "classes: %v\n", labels)
			confusion, accuracy, err := f.OOB()
			if err != nil {
				logger.Warn("skipping out-of-bag evaluation", zap.Error(err))
				fmt.Fprintf(out, "training accuracy: %.4f\n", f.Test(data))
				return nil
			}
			fmt.Fprintf(out, "oob confusion:\n%v\n", mat.Formatted(confusion, mat.Squeeze()))
			fmt.Fprintf(out, "oob accuracy: %.4f\n", accuracy)
			return nil
		},
	}
	cmd.Flags().IntVarP(&(config.trees), "trees", "t", 0, "number of trees, overriding the config")
	return cmd
}

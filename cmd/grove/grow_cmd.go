package main

import (
	"context"
	"fmt"

	"github.com/pbanos/grove"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type growCmdConfig struct {
	*rootCmdConfig
	dot bool
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a set of data",
		Long: `Grow a tree from CSV data read on STDIN, whose last column is the class
to predict, and print it along with its stats. Interrupting the command prints
the part of the tree grown so far.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.configuration()
			if err != nil {
				return err
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
			logger.Info("growing tree", zap.Int("rows", data.Rows()), zap.Int("columns", data.Columns()), zap.Strings("classes", labels))
			ctx, cancel := interruptible(context.Background())
			defer cancel()
			t, _, stats, err := grove.GrowWith(ctx, data, cfg.With(grove.Logger(logger)))
			if err != nil && t == nil {
				return err
			}
			if err != nil {
				logger.Warn("printing partial tree", zap.Error(err))
			}
			out := cmd.OutOrStdout()
			if config.dot {
				return t.RenderDOT(out)
			}
			fmt.Fprintf(out, "tree: %v\n", t)
			fmt.Fprintf(out, "classes: %v\n", labels)
			fmt.Fprintf(out, "nodes: %d leaves: %d inner: %d depth: %d\n", stats.Nodes, stats.Leaves, stats.Inner, stats.MaxDepth)
			fmt.Fprintf(out, "training accuracy: %.4f\n", t.Test(data))
			return nil
		},
	}
	cmd.Flags().BoolVar(&(config.dot), "dot", false, "print the tree in graphviz DOT format instead")
	return cmd
}

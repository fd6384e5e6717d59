package main

import (
	"os"

	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	verbose  bool
	config   string
	metadata string
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "grove",
		Short: "grove is a tool to grow classification trees and forests",
		Long:  `A tool to grow classification trees and random forests from CSV data read on STDIN`,
	}
	config := &rootCmdConfig{}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "log the progress of the build to STDERR")
	rootCmd.PersistentFlags().StringVarP(&(config.config), "config", "c", "", "YAML with the parameters to grow trees with (trees, features, bag_fraction, bagging, max_depth, min_rows, min_gain, workers, seed, multiway_categorical)")
	rootCmd.PersistentFlags().StringVarP(&(config.metadata), "metadata", "m", "", "YAML with a columns object declaring the kind or the values of the columns of the input")
	rootCmd.AddCommand(versionCmd(), growCmd(config), forestCmd(config))
	return rootCmd
}

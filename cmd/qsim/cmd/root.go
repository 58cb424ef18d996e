package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "qsim",
	Short: "State vector quantum circuit simulator",
	Long: `qsim applies the gates of a circuit file to a state vector and reports
the resulting probabilities and sampled measurement outcomes.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile == "" {
			return nil
		}

		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "read config %s", configFile)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "engine config file (yaml, toml or json)")
	rootCmd.PersistentFlags().String("precision", "", "amplitude precision: single or double")
	rootCmd.PersistentFlags().Int("workers", 0, "pool workers (default: number of CPUs)")
	rootCmd.PersistentFlags().Int("min-chunk", 0, "smallest group range handed to a worker")

	viper.BindPFlag("precision", rootCmd.PersistentFlags().Lookup("precision"))
	viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	viper.BindPFlag("min_chunk", rootCmd.PersistentFlags().Lookup("min-chunk"))

	rootCmd.AddCommand(runCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vhdio/vhd/pkg/elog"
)

var log = &elog.CLI{}

var (
	flagVerbose bool
	flagDebug   bool
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "vhdutil",
	Short: "Create, read, and write sectors of fixed-size VHD files",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.IsVerbose = flagVerbose
		log.IsDebug = flagDebug
		log.DisableColors = flagNoColor
		logrus.SetFormatter(log)
		if flagDebug {
			logrus.SetLevel(logrus.TraceLevel)
		} else if flagVerbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	f.BoolVar(&flagDebug, "debug", false, "enable debug logging")
	f.BoolVar(&flagNoColor, "no-color", false, "disable colorized log output")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(writeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

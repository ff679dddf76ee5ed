// sarproc-host runs the SAR-ADC conversion controller on a development
// host, or bridges the local terminal to a target's debug console.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sarproc/host/config"
)

var (
	configPath string
	v          = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "sarproc-host",
	Short: "sarproc-host drives the SAR-ADC result processing loop",
	Long: "sarproc-host runs the SAR-ADC conversion controller against a simulated\n" +
		"peripheral, or connects the terminal to the console of a flashed target.\n\n" +
		"Keys: 'a' halves the average count, 'd' doubles it, 's' cycles the\n" +
		"output format. Ctrl-C quits.",
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML config file")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-file", "sarproc.log", "log file, empty for stderr")
	pf.Bool("debug", false, "forward controller debug messages to the log")
	v.BindPFlag("log.level", pf.Lookup("log-level"))
	v.BindPFlag("log.file", pf.Lookup("log-file"))
	v.BindPFlag("log.debug", pf.Lookup("debug"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "sarproc-host: %s\n", err)
		os.Exit(1)
	}
}

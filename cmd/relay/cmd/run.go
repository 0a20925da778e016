package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gridlab/relay/monitoring"
	"github.com/gridlab/relay/tracing"
)

var (
	runMonitor bool
	runTrace   string
	runSpeed   float64
	runSave    bool
)

var runCmd = &cobra.Command{
	Use:   "run [document]",
	Short: "Load a circuit document and propagate it to a settled state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadDocument(args[0])
		if err != nil {
			return err
		}

		if runSpeed != 1 {
			if err := c.Timeline().SetSpeed(runSpeed); err != nil {
				return err
			}
		}

		if runTrace != "" {
			recorder := tracing.NewSQLiteRecorder(runTrace)
			c.Timeline().AcceptHook(tracing.NewValueTraceHook(recorder))
		}

		if runMonitor {
			monitor := monitoring.NewMonitor().
				WithPortNumber(monitorPort())
			monitor.RegisterCircuit(c)
			if _, err := monitor.StartServer(); err != nil {
				return err
			}
		}

		if err := c.Timeline().Drain(); err != nil {
			return err
		}

		for _, view := range c.Snapshot() {
			mismatch := ""
			if view.ForceMismatch {
				mismatch = " (forced, mismatch)"
			}
			fmt.Printf("%4d %-20s %-8s %s%s\n",
				view.ID, view.Component+"."+view.Label, view.Kind,
				view.Value, mismatch)
		}

		if runSave {
			doc, err := saveDocument(c)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
		}

		return nil
	},
}

// monitorPort reads the monitoring port from the environment, with .env
// support for development setups.
func monitorPort() int {
	_ = godotenv.Load()

	raw := os.Getenv("RELAY_MONITOR_PORT")
	if raw == "" {
		return 0
	}

	port, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ignoring bad RELAY_MONITOR_PORT %q\n", raw)
		return 0
	}

	return port
}

func init() {
	runCmd.Flags().BoolVar(&runMonitor, "monitor", false,
		"serve the circuit state over HTTP while running")
	runCmd.Flags().StringVar(&runTrace, "trace", "",
		"record node value transitions into the named SQLite database")
	runCmd.Flags().Float64Var(&runSpeed, "speed", 1,
		"global speed multiplier applied to all wire delays")
	runCmd.Flags().BoolVar(&runSave, "save", false,
		"print the re-serialized document after running")

	rootCmd.AddCommand(runCmd)
}

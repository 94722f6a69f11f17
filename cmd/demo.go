package cmd

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/scheerer/mystic-light-controller/lights"
)

var demoColor = lights.NewColor(255, 0, 0)

func (a *app) demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Turn the first device red until Enter is pressed, then restore it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			devices := a.controller.Devices()
			if len(devices) == 0 {
				return errors.New("no devices found")
			}
			device := devices[0]

			previous, err := a.controller.AllColors(device)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Setting all LEDs of %s to %s\n", device, demoColor)
			setErr := a.controller.SetAllColors(device, demoColor)
			if err := a.printLEDs(cmd, device); err != nil {
				return err
			}

			fmt.Fprintln(out, "Press Enter to restore the previous colors")
			if _, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n'); err != nil {
				logger.Debugf("stdin closed before Enter: %v", err)
			}

			for i, c := range previous {
				setErr = multierr.Append(setErr, a.controller.SetColor(device, uint32(i), c))
			}
			fmt.Fprintf(out, "Restored %s\n", device)
			return setErr
		},
	}
}

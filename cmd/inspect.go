package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) devicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List devices and their LED counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, device := range a.controller.Devices() {
				n, err := a.controller.LedCount(device)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", device, n)
			}
			return nil
		},
	}
}

func (a *app) ledsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leds [device]",
		Short: "Describe the LEDs of one device, or of every device",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return a.printLEDs(cmd, args[0])
			}
			for _, device := range a.controller.Devices() {
				if err := a.printLEDs(cmd, device); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) printLEDs(cmd *cobra.Command, device string) error {
	leds, err := a.controller.LEDs(device)
	if err != nil {
		return err
	}
	for _, led := range leds {
		fmt.Fprintln(cmd.OutOrStdout(), led)
	}
	return nil
}

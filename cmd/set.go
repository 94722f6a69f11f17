package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/scheerer/mystic-light-controller/lights"
)

const allLEDs = -1

// setter changes one attribute either on every LED of a device or on one.
type setter struct {
	all func(device string) error
	one func(device string, index uint32) error
}

func (a *app) apply(cmd *cobra.Command, device string, index int, s setter) error {
	if index < allLEDs {
		return fmt.Errorf("invalid led index %d", index)
	}
	var err error
	if index == allLEDs {
		err = s.all(device)
	} else {
		err = s.one(device, uint32(index))
	}
	if err != nil {
		return err
	}
	return a.printLEDs(cmd, device)
}

func parseLevel(name, arg string) (uint32, error) {
	v, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, arg, err)
	}
	return uint32(v), nil
}

func parseChannel(name, arg string) (uint32, error) {
	v, err := strconv.ParseUint(arg, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid %s channel %q, must be 0 to %d", name, arg, lights.MaxChannel)
	}
	return uint32(v), nil
}

func addIndexFlag(cmd *cobra.Command, index *int) {
	cmd.Flags().IntVarP(index, "index", "i", allLEDs, "only change the LED with this index")
}

func (a *app) colorCmd() *cobra.Command {
	var index int
	cmd := &cobra.Command{
		Use:   "color <device> <r> <g> <b>",
		Short: "Set the color of a device's LEDs",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rgb [3]uint32
			for i, name := range []string{"red", "green", "blue"} {
				v, err := parseChannel(name, args[i+1])
				if err != nil {
					return err
				}
				rgb[i] = v
			}
			color := lights.NewColor(rgb[0], rgb[1], rgb[2])
			return a.apply(cmd, args[0], index, setter{
				all: func(device string) error { return a.controller.SetAllColors(device, color) },
				one: func(device string, i uint32) error { return a.controller.SetColor(device, i, color) },
			})
		},
	}
	addIndexFlag(cmd, &index)
	return cmd
}

func (a *app) styleCmd() *cobra.Command {
	var index int
	cmd := &cobra.Command{
		Use:   "style <device> <style>",
		Short: "Set the style of a device's LEDs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			style := args[1]
			return a.apply(cmd, args[0], index, setter{
				all: func(device string) error { return a.controller.SetAllStyles(device, style) },
				one: func(device string, i uint32) error { return a.controller.SetStyle(device, i, style) },
			})
		},
	}
	addIndexFlag(cmd, &index)
	return cmd
}

func (a *app) brightnessCmd() *cobra.Command {
	var index int
	cmd := &cobra.Command{
		Use:   "brightness <device> <level>",
		Short: "Set the brightness of a device's LEDs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLevel("brightness", args[1])
			if err != nil {
				return err
			}
			return a.apply(cmd, args[0], index, setter{
				all: func(device string) error { return a.controller.SetAllBrightness(device, level) },
				one: func(device string, i uint32) error { return a.controller.SetBrightness(device, i, level) },
			})
		},
	}
	addIndexFlag(cmd, &index)
	return cmd
}

func (a *app) speedCmd() *cobra.Command {
	var index int
	cmd := &cobra.Command{
		Use:   "speed <device> <level>",
		Short: "Set the effect speed of a device's LEDs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLevel("speed", args[1])
			if err != nil {
				return err
			}
			return a.apply(cmd, args[0], index, setter{
				all: func(device string) error { return a.controller.SetAllSpeeds(device, level) },
				one: func(device string, i uint32) error { return a.controller.SetSpeed(device, i, level) },
			})
		},
	}
	addIndexFlag(cmd, &index)
	return cmd
}

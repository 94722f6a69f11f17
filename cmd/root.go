// Package cmd implements the mysticlight command line.
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scheerer/mystic-light-controller/internal/config"
	"github.com/scheerer/mystic-light-controller/internal/lifx"
	"github.com/scheerer/mystic-light-controller/internal/logging"
	"github.com/scheerer/mystic-light-controller/lights"
	"github.com/scheerer/mystic-light-controller/mlapi"
)

var logger = logging.New("cmd")

// app is the state shared by every subcommand of one invocation.
type app struct {
	config     config.Config
	gateway    mlapi.Gateway
	controller *lights.Controller
}

func openGateway(c config.Config) (mlapi.Gateway, error) {
	switch c.Backend {
	case config.BackendMystic:
		return mlapi.LoadDLL(c.SDKDir)
	case config.BackendLifx:
		gw, err := lifx.NewGateway(lifx.Config{GroupName: c.LifxGroupName, Timeout: c.LifxTimeout})
		if err != nil {
			return nil, fmt.Errorf("create LIFX client: %w", err)
		}
		return gw, nil
	case config.BackendSimulated:
		return mlapi.NewDemoSimulated(), nil
	default:
		return nil, fmt.Errorf("unknown light backend: %v", c.Backend)
	}
}

// open loads the configuration and builds the controller. Help and shell
// completion run without touching any backend.
func (a *app) open(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "help" || (cmd.HasParent() && cmd.Parent().Name() == "completion") {
		return nil
	}

	c, err := config.Load()
	if err != nil {
		return err
	}
	if err := logging.Configure(c.LogLevel); err != nil {
		return err
	}
	a.config = c
	logger.With(zap.Any("config", c)).Debug("Loaded configuration")

	gw, err := openGateway(c)
	if err != nil {
		return err
	}
	a.gateway = gw

	a.controller = lights.NewController(gw)
	if !a.controller.Initialized() {
		return a.controller.Err()
	}
	if err := a.controller.Err(); err != nil {
		logger.With(zap.Error(err)).Warn("Some devices could not be read and are unavailable")
	}
	return nil
}

func (a *app) close(_ *cobra.Command, _ []string) error {
	if closer, ok := a.gateway.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "mysticlight",
		Short: "Control MSI Mystic Light LEDs",
		Long: `Reads and changes the color, style, brightness and speed of every LED the Mystic Light SDK reports.

The backend is chosen with LIGHT_BACKEND: MYSTIC talks to the vendor SDK (set MYSTIC_SDK_DIR if ` +
			`MysticLight_SDK.dll is not on the search path), LIFX drives the bulbs of LIFX_GROUP_NAME and ` +
			`SIMULATED runs against an in-memory mainboard.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.open,
		PersistentPostRunE: a.close,
	}

	root.AddCommand(
		a.devicesCmd(),
		a.ledsCmd(),
		a.colorCmd(),
		a.styleCmd(),
		a.brightnessCmd(),
		a.speedCmd(),
		a.demoCmd(),
		a.syncCmd(),
	)
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}

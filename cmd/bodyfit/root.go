package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bodyfit/internal/config"
	"bodyfit/internal/logging"
)

type commandContext struct {
	configFlag *string
	debugFlag  *bool

	once      sync.Once
	config    *config.Config
	logger    *zap.SugaredLogger
	configErr error
}

func (c *commandContext) ensure() (*config.Config, *zap.SugaredLogger, error) {
	c.once.Do(func() {
		logger, err := logging.NewLogger("bodyfit", *c.debugFlag)
		if err != nil {
			c.configErr = err
			return
		}
		c.logger = logger

		cfg, exists, err := config.Load(strings.TrimSpace(*c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if exists {
			logger.Debugw("loaded config", "path", *c.configFlag)
		}
		c.config = cfg
	})
	return c.config, c.logger, c.configErr
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var debugFlag bool
	ctx := &commandContext{configFlag: &configFlag, debugFlag: &debugFlag}

	rootCmd := &cobra.Command{
		Use:           "bodyfit",
		Short:         "Helpers for multi-view body model fitting",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			_, _, err := ctx.ensure()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newCalibCommand(ctx))
	rootCmd.AddCommand(newJointsCommand(ctx))
	rootCmd.AddCommand(newKernelCommand(ctx))
	rootCmd.AddCommand(newOverlayCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

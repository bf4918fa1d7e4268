// Package cmd wires the menu-admin command line.
package cmd

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yeremiapane/menu-admin/config"
	"github.com/yeremiapane/menu-admin/services"
	"github.com/yeremiapane/menu-admin/utils"
)

// app is what every subcommand shares once the config is read.
type app struct {
	cfg    *config.Config
	client *services.MenuClient
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "menu-admin",
		Short: "Restaurant menu administration console",
		Long: `menu-admin manages a restaurant's dish catalog and today's menu
against the menu REST backend.

Running it without a subcommand starts the web console.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.Load()
			utils.InitLogger(a.cfg.LogLevel)
			if a.cfg.GinMode == gin.ReleaseMode {
				gin.SetMode(gin.ReleaseMode)
			}
			a.client = services.NewMenuClient(a.cfg.Backend.BaseURL, a.cfg.Backend.Timeout)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	root.AddCommand(newServeCmd(a), newDishesCmd(a), newTodayCmd(a))
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

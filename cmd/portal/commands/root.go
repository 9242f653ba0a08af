package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type Command = cobra.Command

func Run(args []string) error {
	RootCmd.SetArgs(args)
	return RootCmd.Execute()
}

var RootCmd = &cobra.Command{
	Use:   "portal",
	Short: "community portal with per-community news and resources.",
}

func init() {
	RootCmd.PersistentFlags().StringP("config", "c", "config.json", "config file name.")

	viper.SetEnvPrefix("portal")
	viper.BindEnv("config")

	viper.BindPFlag("config", RootCmd.PersistentFlags().Lookup("config"))
}

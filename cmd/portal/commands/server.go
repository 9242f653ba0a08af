package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/commstack/portal/api"
	"github.com/commstack/portal/app"
	"github.com/commstack/portal/config"
	"github.com/commstack/portal/web"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "run the portal server",
	RunE:  serverCmdF,
}

func init() {
	RootCmd.AddCommand(serverCmd)
	RootCmd.RunE = serverCmdF
}

func serverCmdF(command *cobra.Command, args []string) error {
	return runServer()
}

func runServer() error {
	interruptChan := make(chan os.Signal, 1)

	configStore, err := config.NewFileStore(viper.GetString("config"), true)
	if err != nil {
		return err
	}

	server, err := app.NewServer(app.ConfigStore(configStore))
	if err != nil {
		return err
	}
	defer server.Shutdown()

	api.Init(server.AppOptions, server.Router)
	web.New(server, server.Router)

	serverErr := server.Start()
	if serverErr != nil {
		return serverErr
	}

	signal.Notify(interruptChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGPIPE)
	<-interruptChan

	return nil
}

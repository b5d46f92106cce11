package db

import (
	"github.com/ValentinKolb/rediDB/cmd/util"
	"github.com/ValentinKolb/rediDB/rpc/client"
	"github.com/spf13/cobra"
)

var (
	rpcStore client.IRemoteStore

	// Commands represents the database command group
	Commands = &cobra.Command{
		Use:                "db",
		Short:              "Perform operations on a running rediDB server",
		PersistentPreRunE:  setupClient,
		PersistentPostRunE: closeClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add common RPC flags to the db command
	util.SetupRPCClientFlags(Commands)

	// Add subcommands
	Commands.AddCommand(createCmd)
	Commands.AddCommand(addCmd)
	Commands.AddCommand(getCmd)
	Commands.AddCommand(queryCmd)
	Commands.AddCommand(editCmd)
	Commands.AddCommand(deleteCmd)
	Commands.AddCommand(perfTestCmd)
}

// setupClient connects and authenticates the RPC store client
func setupClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Get client configuration components
	config := util.GetClientConfig()

	// Get serializer and transport
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	t, err := util.GetClientTransport()
	if err != nil {
		return err
	}

	// Create the store client
	rpcStore, err = client.NewRPCStore(
		*config,
		t,
		s,
	)

	return err
}

// closeClient ends the session after a command completed
func closeClient(_ *cobra.Command, _ []string) error {
	if rpcStore == nil {
		return nil
	}
	return rpcStore.Close()
}

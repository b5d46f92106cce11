package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/rediDB/cmd/db"
	"github.com/ValentinKolb/rediDB/cmd/serve"
	"github.com/ValentinKolb/rediDB/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "redidb",
		Short: "networked in-memory document database",
		Long: fmt.Sprintf(`rediDB (v%s)

A small networked document database written in Go. Collections of
schemaless JSON records are kept in memory, queried by field equality
and periodically flushed to a snapshot file.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of rediDB",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("rediDB v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(db.Commands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("serializer to use (json, gob)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "tcp", util.WrapString("transport to use (tcp, unix)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

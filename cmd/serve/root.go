package serve

import (
	cmdUtil "github.com/ValentinKolb/rediDB/cmd/util"
	"github.com/ValentinKolb/rediDB/rpc/common"
	"github.com/ValentinKolb/rediDB/rpc/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the rediDB server",
		Long:    `Start the rediDB server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is REDIDB_<flag> (e.g. REDIDB_FLUSH_INTERVAL=500)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitConfig)

	// add flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8080", cmdUtil.WrapString("The address on which the server will listen (e.g. localhost:8080 for tcp, /tmp/redidb.sock for unix)"))

	key = "http-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("The address of the landing page and metrics endpoint (e.g. localhost:8081, empty = disabled)"))

	key = "user"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("The user every client must authenticate as"))

	key = "password"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("The password every client must authenticate with"))

	key = "snapshot-path"
	ServeCmd.PersistentFlags().String(key, "./data.json", cmdUtil.WrapString("The file the database snapshot is loaded from and flushed to"))

	key = "snapshot-backend"
	ServeCmd.PersistentFlags().String(key, "json", cmdUtil.WrapString("The format of the snapshot file (json, sqlite)"))

	key = "flush-interval"
	ServeCmd.PersistentFlags().Int64(key, 2000, cmdUtil.WrapString("The interval in milliseconds at which the database is written to the snapshot file"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 0, cmdUtil.WrapString("The write timeout for responses in seconds (0 = none)"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))

	key = "log-color"
	ServeCmd.PersistentFlags().String(key, "auto", cmdUtil.WrapString("Whether log levels are colored (auto, always, never)"))

	cmdUtil.SetupTransportFlags(ServeCmd)
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.HTTPEndpoint = viper.GetString("http-endpoint")
	serveCmdConfig.User = viper.GetString("user")
	serveCmdConfig.Password = viper.GetString("password")
	serveCmdConfig.SnapshotPath = viper.GetString("snapshot-path")
	serveCmdConfig.SnapshotBackend = viper.GetString("snapshot-backend")
	serveCmdConfig.FlushIntervalMillisecond = viper.GetInt64("flush-interval")
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.LogLevel = viper.GetString("log-level")
	serveCmdConfig.LogColor = viper.GetString("log-color")
	serveCmdConfig.Transport = cmdUtil.GetTransportConfig()

	return nil
}

// run starts the rediDB server and blocks until it receives SIGINT or SIGTERM
func run(_ *cobra.Command, _ []string) error {
	s, err := cmdUtil.GetSerializer()
	if err != nil {
		return err
	}

	t, err := cmdUtil.GetServerTransport()
	if err != nil {
		return err
	}

	serv := server.NewRPCServer(
		*serveCmdConfig,
		t,
		s,
	)

	return serv.Serve()
}

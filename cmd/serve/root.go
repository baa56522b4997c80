package serve

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cmdUtil "hotelier/cmd/util"
	"hotelier/service/common"
	"hotelier/service/server"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the hotelier server",
		Long:    `Start the hotelier server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is HOTELIER_<flag> (e.g. HOTELIER_TCP_ADDR=:7777)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitConfig)

	// add flags
	key := "tcp-addr"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:7777", cmdUtil.WrapString("The address on which the session protocol endpoint will listen"))

	key = "multicast-addr"
	ServeCmd.PersistentFlags().String(key, "228.5.6.7", cmdUtil.WrapString("The multicast group address used to broadcast top-ranked hotel notices"))

	key = "udp-port"
	ServeCmd.PersistentFlags().Int(key, 44000, cmdUtil.WrapString("The UDP port of the multicast group"))

	key = "metrics-addr"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("The address of the metrics/pprof HTTP endpoint (empty disables it)"))

	key = "data-dir"
	ServeCmd.PersistentFlags().String(key, "data", cmdUtil.WrapString("The directory holding the JSON data snapshots (Cities.json, Hotels.json, Users.json, Reviews.json)"))

	key = "ranking-period"
	ServeCmd.PersistentFlags().Duration(key, 30*time.Second, cmdUtil.WrapString("The interval between two ranking recomputation passes"))

	key = "persistence-period"
	ServeCmd.PersistentFlags().Duration(key, time.Minute, cmdUtil.WrapString("The interval between two data snapshots"))

	key = "review-cooldown"
	ServeCmd.PersistentFlags().Duration(key, time.Hour, cmdUtil.WrapString("The minimum time before the same user may review the same hotel again"))

	key = "shutdown-max-delay"
	ServeCmd.PersistentFlags().Duration(key, 30*time.Second, cmdUtil.WrapString("How long shutdown waits for in-flight sessions before giving up"))

	key = "tcp-nodelay"
	ServeCmd.PersistentFlags().Bool(key, true, cmdUtil.WrapString("Whether to enable TCP_NODELAY on accepted connections"))

	key = "tcp-keepalive"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("The TCP keepalive interval for accepted connections (in seconds, 0 disables it)"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))

	key = "log-console"
	ServeCmd.PersistentFlags().Bool(key, false, cmdUtil.WrapString("Whether to log in a human-readable console format instead of JSON"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts it to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	serveCmdConfig.TCPAddr = viper.GetString("tcp-addr")
	serveCmdConfig.MulticastAddr = viper.GetString("multicast-addr")
	serveCmdConfig.UDPPort = viper.GetInt("udp-port")
	serveCmdConfig.MetricsAddr = viper.GetString("metrics-addr")
	serveCmdConfig.DataDir = viper.GetString("data-dir")
	serveCmdConfig.RankingPeriod = viper.GetDuration("ranking-period")
	serveCmdConfig.PersistencePeriod = viper.GetDuration("persistence-period")
	serveCmdConfig.ReviewCooldown = viper.GetDuration("review-cooldown")
	serveCmdConfig.ShutdownMaxDelay = viper.GetDuration("shutdown-max-delay")
	serveCmdConfig.TCPNoDelay = viper.GetBool("tcp-nodelay")
	serveCmdConfig.TCPKeepAliveSec = viper.GetInt("tcp-keepalive")
	serveCmdConfig.LogLevel = viper.GetString("log-level")
	serveCmdConfig.LogConsole = viper.GetBool("log-console")

	return serveCmdConfig.Validate()
}

func run(_ *cobra.Command, _ []string) error {
	common.InitLoggers(serveCmdConfig.LogLevel, serveCmdConfig.LogConsole)
	return server.Run(*serveCmdConfig)
}

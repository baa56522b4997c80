package client

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	hotelierClient "hotelier/client"
	cmdUtil "hotelier/cmd/util"
	"hotelier/service/common"
)

var (
	clientCmdConfig = &common.ClientConfig{}
	ClientCmd       = &cobra.Command{
		Use:     "client",
		Short:   "Start the interactive hotelier client",
		Long:    `Connect to a hotelier server and interact with it on the command line. Responses, pushed ranking updates and multicast notices are printed as they arrive.`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitConfig)

	// add flags
	key := "server-addr"
	ClientCmd.PersistentFlags().String(key, "localhost:7777", cmdUtil.WrapString("The address of the hotelier server's session endpoint"))

	key = "multicast-addr"
	ClientCmd.PersistentFlags().String(key, "228.5.6.7", cmdUtil.WrapString("The multicast group address to join for broadcast notices"))

	key = "udp-port"
	ClientCmd.PersistentFlags().Int(key, 44000, cmdUtil.WrapString("The UDP port of the multicast group"))

	key = "dial-timeout"
	ClientCmd.PersistentFlags().Duration(key, 10*time.Second, cmdUtil.WrapString("The timeout of the initial connection attempt"))
}

// processConfig reads the configuration from the command line flags and environment variables
func processConfig(cmd *cobra.Command, _ []string) error {
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	clientCmdConfig.ServerAddr = viper.GetString("server-addr")
	clientCmdConfig.MulticastAddr = viper.GetString("multicast-addr")
	clientCmdConfig.UDPPort = viper.GetInt("udp-port")
	clientCmdConfig.DialTimeout = viper.GetDuration("dial-timeout")

	return clientCmdConfig.Validate()
}

func run(_ *cobra.Command, _ []string) error {
	common.InitLoggers("warn", true)
	return hotelierClient.Run(*clientCmdConfig)
}

// Package cmd holds the command line entry points of the daemon.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "golang-ethernetd",
	Short: "golang-ethernetd provisions ethernet interfaces and publishes them as networks",
	Long: `golang-ethernetd tracks ethernet links over netlink, provisions them with
DHCP or a static configuration and publishes every provisioned interface as a
network that requests can hold on to. An admin HTTP API exposes the state.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tip-core/pkg/chain"
	"tip-core/pkg/config"
)

var chainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "列出支持的链及 RPC 配置",
	Run: func(cmd *cobra.Command, args []string) {
		pool := chain.NewPool(config.Global.Chains.RpcUrls, config.Global.Chains.RPS)
		defer pool.Close()

		fmt.Printf("%-10s %-14s %-7s %-8s %s\n", "CHAIN_ID", "NAME", "SYMBOL", "TESTNET", "RPC")
		for _, n := range chain.All() {
			endpoint := pool.Endpoint(n.ChainID)
			if endpoint == "" {
				endpoint = "(未配置)"
			}
			fmt.Printf("%-10d %-14s %-7s %-8t %s\n", n.ChainID, n.Name, n.Symbol, n.Testnet, endpoint)
		}
	},
}

func init() {
	rootCmd.AddCommand(chainsCmd)
}

package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tip-core/internal/service/settlement"
	"tip-core/pkg/chain"
	"tip-core/pkg/config"
)

var (
	reconcileSince time.Duration
	reconcileJSON  bool
)

// reconcileCmd 只输出报告，从不修改记录
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "重新读链核对最近入账的小费",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		pool := chain.NewPool(config.Global.Chains.RpcUrls, config.Global.Chains.RPS)
		defer pool.Close()

		to := time.Now()
		report, err := settlement.NewReconciler(db, pool).Run(cmd.Context(), to.Add(-reconcileSince), to)
		if err != nil {
			return err
		}

		if reconcileJSON {
			out, _ := json.MarshalIndent(report, "", "  ")
			fmt.Println(string(out))
			return nil
		}

		fmt.Printf("核对 %d 条记录，差异 %d 条\n", report.Checked, len(report.Discrepancies))
		for _, d := range report.Discrepancies {
			fmt.Printf("  tip=%d chain=%d %s %s %s\n", d.TipID, d.ChainID, d.TxHash, d.Kind, d.Detail)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
	reconcileCmd.Flags().DurationVar(&reconcileSince, "since", 24*time.Hour, "核对窗口 (从现在往前)")
	reconcileCmd.Flags().BoolVar(&reconcileJSON, "json", false, "以 JSON 输出报告")
}

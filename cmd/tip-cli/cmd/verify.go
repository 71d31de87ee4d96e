package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tip-core/internal/service/price"
	"tip-core/internal/service/settlement"
	"tip-core/pkg/address"
	"tip-core/pkg/cache"
	"tip-core/pkg/chain"
	"tip-core/pkg/config"
	"tip-core/pkg/errno"
)

var (
	verifyChainID uint64
	verifyTxHash  string
	verifyAmount  string
	verifyPayout  string
)

// verifyCmd 只读演练，不查库也不写库
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "只读验证一笔交易 (读链、校验、折算)",
	Example: `  tip-cli verify --chain-id 8453 --tx-hash 0x... --amount 1000000000000000 \
    --payout 0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !address.IsValid(verifyPayout) {
			return fmt.Errorf("--payout 不是合法地址: %q", verifyPayout)
		}
		cfg := config.Global

		pool := chain.NewPool(cfg.Chains.RpcUrls, cfg.Chains.RPS)
		defer pool.Close()

		quoter, err := price.New(cfg.Price, cache.NewMemoryCache(cfg.Price.CacheTTL, time.Minute))
		if err != nil {
			return err
		}

		verifier := settlement.New(nil, nil, pool, quoter, cfg.Settlement)

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Settlement.RequestTimeout)
		defer cancel()

		result, err := verifier.Inspect(ctx, settlement.Submission{
			QRCode:            "CLI",
			TxHash:            verifyTxHash,
			ChainID:           verifyChainID,
			AmountNativeUnits: verifyAmount,
		}, verifyPayout)
		if err != nil {
			code, msg := errno.Decode(err)
			fmt.Printf("❌ 验证失败 [%d] %s (%s)\n", code, msg, settlement.Reason(err))
			fmt.Printf("   detail: %v\n", err)
			return nil
		}

		out, _ := json.MarshalIndent(map[string]interface{}{
			"tx_hash":        result.OnChain.Hash,
			"to":             address.Checksum(result.OnChain.To),
			"value_wei":      result.OnChain.Value.String(),
			"block_number":   result.OnChain.BlockNumber,
			"symbol":         result.Conversion.Symbol,
			"price_usd":      result.Conversion.PriceUSD.String(),
			"amount_cents":   result.Conversion.AmountCents,
			"gas_paid_cents": result.Conversion.GasPaidCents,
		}, "", "  ")
		fmt.Println("✅ 验证通过")
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().Uint64Var(&verifyChainID, "chain-id", 0, "链 ID")
	verifyCmd.Flags().StringVar(&verifyTxHash, "tx-hash", "", "交易哈希")
	verifyCmd.Flags().StringVar(&verifyAmount, "amount", "", "声明金额 (wei)")
	verifyCmd.Flags().StringVar(&verifyPayout, "payout", "", "预期收款地址")
	_ = verifyCmd.MarkFlagRequired("chain-id")
	_ = verifyCmd.MarkFlagRequired("tx-hash")
	_ = verifyCmd.MarkFlagRequired("amount")
	_ = verifyCmd.MarkFlagRequired("payout")
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"tip-core/internal/model"
	"tip-core/pkg/address"
	"tip-core/pkg/qrcode"
)

type seedOptions struct {
	Organization string
	Location     string
	ServerID     uint64
	ServerName   string
	ServerEmail  string
	Payout       string
}

var seedOpts seedOptions

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "写入一条演示用的商户/门店/任职/二维码 (本地开发)",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		qr, err := seedDemo(db, seedOpts)
		if err != nil {
			return err
		}
		fmt.Printf("✅ 二维码已创建: %s (assignment_id=%d)\n", qr.Code, qr.AssignmentID)
		fmt.Printf("   GET /api/v1/qr/%s\n", qr.Code)
		return nil
	},
}

// seedDemo 在一个事务里创建整条链路，二维码标识随机生成
func seedDemo(db *gorm.DB, opts seedOptions) (model.QRCode, error) {
	var qr model.QRCode
	if !address.IsValid(opts.Payout) {
		return qr, fmt.Errorf("--payout 不是合法地址: %q", opts.Payout)
	}
	code, err := qrcode.NewCode(qrcode.DefaultLength)
	if err != nil {
		return qr, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		org := model.Organization{Name: opts.Organization}
		if err := tx.Create(&org).Error; err != nil {
			return err
		}
		loc := model.Location{OrganizationID: org.ID, Name: opts.Location}
		if err := tx.Create(&loc).Error; err != nil {
			return err
		}
		assignment := model.StaffAssignment{
			OrganizationID:      org.ID,
			LocationID:          loc.ID,
			ServerID:            opts.ServerID,
			ServerDisplayName:   opts.ServerName,
			ServerEmail:         opts.ServerEmail,
			PayoutWalletAddress: address.Normalize(opts.Payout),
			IsActive:            true,
		}
		if err := tx.Create(&assignment).Error; err != nil {
			return err
		}
		qr = model.QRCode{Code: code, AssignmentID: assignment.ID, IsActive: true}
		return tx.Create(&qr).Error
	})
	return qr, err
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVar(&seedOpts.Organization, "org", "Demo Restaurant Group", "商户名")
	seedCmd.Flags().StringVar(&seedOpts.Location, "location", "Main Street", "门店名")
	seedCmd.Flags().Uint64Var(&seedOpts.ServerID, "server-id", 1, "服务员 ID")
	seedCmd.Flags().StringVar(&seedOpts.ServerName, "server-name", "Alex", "服务员展示名")
	seedCmd.Flags().StringVar(&seedOpts.ServerEmail, "server-email", "", "到账通知邮箱")
	seedCmd.Flags().StringVar(&seedOpts.Payout, "payout", "", "收款地址")
	_ = seedCmd.MarkFlagRequired("payout")
}

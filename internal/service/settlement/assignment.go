package settlement

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tip-core/internal/model"
	"tip-core/pkg/address"
	"tip-core/pkg/errno"
)

// ResolveAssignment 通过二维码找到激活的任职记录
// 二维码或任职未激活、未配置收款地址都按 AssignmentNotFound 处理
func ResolveAssignment(ctx context.Context, db *gorm.DB, code string) (model.StaffAssignment, error) {
	var assignment model.StaffAssignment

	// 1. 查二维码
	var qr model.QRCode
	err := db.WithContext(ctx).Where("code = ? AND is_active = ?", code, true).First(&qr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return assignment, errno.ErrAssignmentNotFound
	}
	if err != nil {
		return assignment, fmt.Errorf("%w: %v", errno.ErrRecordingFailed.WithMessage("assignment lookup failed"), err)
	}

	// 2. 查任职
	err = db.WithContext(ctx).Where("id = ? AND is_active = ?", qr.AssignmentID, true).First(&assignment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return assignment, errno.ErrAssignmentNotFound
	}
	if err != nil {
		return assignment, fmt.Errorf("%w: %v", errno.ErrRecordingFailed.WithMessage("assignment lookup failed"), err)
	}

	// 3. 收款地址必须存在且合法
	if !address.IsValid(assignment.PayoutWalletAddress) {
		return assignment, errno.ErrAssignmentNotFound.WithMessage("Server has no payout wallet configured")
	}
	return assignment, nil
}

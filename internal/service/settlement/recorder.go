package settlement

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tip-core/internal/event"
	"tip-core/internal/model"
	"tip-core/pkg/address"
	"tip-core/pkg/chain"
	"tip-core/pkg/database"
	"tip-core/pkg/errno"
)

// Recorder 在一个事务里写入小费记录和入账事件
type Recorder struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db, now: time.Now}
}

// Record tx_hash 唯一冲突返回 DuplicateSubmission，其余错误返回 RecordingFailed
func (r *Recorder) Record(ctx context.Context, sub Submission, assignment model.StaffAssignment, network chain.Network, onChain *OnChainTransaction, conv Conversion) (*model.Tip, error) {
	tip := &model.Tip{
		OrganizationID:    assignment.OrganizationID,
		LocationID:        assignment.LocationID,
		ServerID:          assignment.ServerID,
		AssignmentID:      assignment.ID,
		Source:            model.TipSourceCrypto,
		AmountCents:       conv.AmountCents,
		Currency:          model.TipCurrencyUSD,
		Status:            model.TipStatusSucceeded,
		BlockchainNetwork: network.Name,
		ChainID:           network.ChainID,
		TxHash:            sub.TxHash,
		FromWalletAddress: sub.FromAddress,
		ToWalletAddress:   address.Normalize(onChain.To),
		TokenSymbol:       conv.Symbol,
		AmountNative:      onChain.Value.String(),
		PriceUSD:          conv.PriceUSD,
		BlockNumber:       onChain.BlockNumber,
		GasPaidCents:      conv.GasPaidCents,
		ReceivedAt:        r.now().UTC(),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 写小费
		if err := tx.Create(tip).Error; err != nil {
			return err
		}

		// 2. 写 Outbox (同一事务)
		payload := event.TipRecordedEvent{
			TipID:        tip.ID,
			AssignmentID: tip.AssignmentID,
			ServerID:     tip.ServerID,
			ChainID:      tip.ChainID,
			TxHash:       tip.TxHash,
			AmountCents:  tip.AmountCents,
			TokenSymbol:  tip.TokenSymbol,
		}
		_, err := model.CreateOutboxMessage(tx, event.TopicTipRecorded, tip.TxHash, payload)
		return err
	})
	if err != nil {
		if database.IsDuplicateKey(err) {
			return nil, errno.ErrDuplicateSubmission
		}
		return nil, fmt.Errorf("%w: %v", errno.ErrRecordingFailed, err)
	}
	return tip, nil
}

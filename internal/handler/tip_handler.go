package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tip-core/internal/handler/request"
	"tip-core/internal/handler/response"
	"tip-core/internal/model"
	"tip-core/internal/service/settlement"
	"tip-core/pkg/address"
	"tip-core/pkg/errno"
	"tip-core/pkg/validator"
)

// TipVerifier 结算流水线 (settlement.Verifier 满足)
type TipVerifier interface {
	Verify(ctx context.Context, sub settlement.Submission) (*settlement.Result, error)
}

type TipHandler struct {
	verifier TipVerifier
	db       *gorm.DB
	timeout  time.Duration
}

// NewTipHandler timeout 为单次结算请求的上限 (等待出块)
func NewTipHandler(verifier TipVerifier, db *gorm.DB, timeout time.Duration) *TipHandler {
	return &TipHandler{verifier: verifier, db: db, timeout: timeout}
}

// SubmitCryptoTip 提交加密小费
// @Summary 提交加密小费
// @Description 客户端广播交易后提交 tx_hash，服务端读链校验收款地址和金额后入账
// @Tags Tips
// @Accept json
// @Produce json
// @Param request body request.SubmitTipRequest true "小费凭证"
// @Success 200 {object} response.TipAccepted
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Failure 422 {object} response.ErrorBody
// @Failure 503 {object} response.ErrorBody
// @Failure 504 {object} response.ErrorBody
// @Router /api/v1/tips/crypto [post]
func (h *TipHandler) SubmitCryptoTip(c *gin.Context) {
	// 1. 绑定参数
	var req request.SubmitTipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrInvalidSubmission.WithMessage(validator.GetErrorMsg(err)))
		return
	}

	// 2. 客户端断开或超时都会中止链上等待
	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	// 3. 结算
	result, err := h.verifier.Verify(ctx, settlement.Submission{
		QRCode:            req.QRCode,
		TxHash:            req.TxHash,
		FromAddress:       req.FromAddress,
		ChainID:           req.ChainID,
		AmountNativeUnits: req.AmountInSmallestUnit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Accepted(c, result.Tip.ID)
}

// GetTip 按交易哈希查询已入账的小费
// @Summary 查询小费
// @Description 重复提交时客户端用它拿到已有记录
// @Tags Tips
// @Produce json
// @Param tx_hash path string true "交易哈希"
// @Success 200 {object} response.Response{data=model.Tip}
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/tips/{tx_hash} [get]
func (h *TipHandler) GetTip(c *gin.Context) {
	var uri request.TxHashURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, errno.ErrInvalidSubmission.WithMessage(validator.GetErrorMsg(err)))
		return
	}

	var tip model.Tip
	err := h.db.WithContext(c.Request.Context()).
		Where("tx_hash = ?", address.Normalize(uri.TxHash)).
		First(&tip).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.Error(c, errno.ErrTipNotFound)
		return
	}
	if err != nil {
		response.Error(c, errno.ErrDatabase)
		return
	}

	response.Success(c, tip)
}

package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tip-core/internal/handler/request"
	"tip-core/internal/handler/response"
	"tip-core/internal/model"
	"tip-core/internal/service/settlement"
	"tip-core/pkg/address"
	"tip-core/pkg/chain"
	"tip-core/pkg/errno"
	"tip-core/pkg/validator"
)

// TipTarget 扫码后展示给顾客的收款信息
type TipTarget struct {
	QRCode              string      `json:"qr_code"`
	ServerDisplayName   string      `json:"server_display_name"`
	LocationName        string      `json:"location_name"`
	PayoutWalletAddress string      `json:"payout_wallet_address"` // EIP-55
	Chains              []ChainInfo `json:"chains"`
}

type QRHandler struct {
	db *gorm.DB
}

func NewQRHandler(db *gorm.DB) *QRHandler {
	return &QRHandler{db: db}
}

// GetTarget 解析二维码
// @Summary 解析二维码
// @Description 返回服务员展示名、门店、收款地址和支持的链
// @Tags QR
// @Produce json
// @Param code path string true "二维码标识"
// @Success 200 {object} response.Response{data=TipTarget}
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/qr/{code} [get]
func (h *QRHandler) GetTarget(c *gin.Context) {
	var uri request.QRCodeURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, errno.ErrInvalidSubmission.WithMessage(validator.GetErrorMsg(err)))
		return
	}
	ctx := c.Request.Context()

	// 1. 二维码 -> 任职 (与结算同一套规则)
	assignment, err := settlement.ResolveAssignment(ctx, h.db, uri.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	// 2. 门店名
	var location model.Location
	err = h.db.WithContext(ctx).First(&location, assignment.LocationID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		response.Error(c, errno.ErrDatabase)
		return
	}

	response.Success(c, TipTarget{
		QRCode:              uri.Code,
		ServerDisplayName:   assignment.ServerDisplayName,
		LocationName:        location.Name,
		PayoutWalletAddress: address.Checksum(assignment.PayoutWalletAddress),
		Chains:              chainInfos(chain.All()),
	})
}

package request

// SubmitTipRequest 客户端提交的小费凭证，除 tx_hash 外不可信
type SubmitTipRequest struct {
	QRCode               string `json:"qr_code" binding:"required,qrcode"`
	TxHash               string `json:"tx_hash" binding:"required,txhash"`
	FromAddress          string `json:"from_address" binding:"omitempty,ethaddr"`
	ChainID              uint64 `json:"chain_id" binding:"required,gt=0"`
	AmountInSmallestUnit string `json:"amount_in_smallest_unit" binding:"required,uintstr"` // wei
}

// TxHashURI GET /tips/:tx_hash
type TxHashURI struct {
	TxHash string `uri:"tx_hash" binding:"required,txhash"`
}

// QRCodeURI GET /qr/:code
type QRCodeURI struct {
	Code string `uri:"code" binding:"required,qrcode"`
}

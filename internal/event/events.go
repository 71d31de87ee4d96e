package event

// TopicTipRecorded 小费入账事件
const TopicTipRecorded = "tip_events_recorded"

// TipRecordedEvent 小费入账事件，下游 (通知 worker) 只依赖这里的字段
// Topic: tip_events_recorded, Key: tx_hash
type TipRecordedEvent struct {
	TipID        uint64 `json:"tip_id"`
	AssignmentID uint64 `json:"assignment_id"`
	ServerID     uint64 `json:"server_id"`
	ChainID      uint64 `json:"chain_id"`
	TxHash       string `json:"tx_hash"`
	AmountCents  int64  `json:"amount_cents"`
	TokenSymbol  string `json:"token_symbol"`
}

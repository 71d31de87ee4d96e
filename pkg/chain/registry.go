package chain

import "sort"

// Network 支持的链
type Network struct {
	ChainID uint64 `json:"chain_id"`
	Name    string `json:"name"`   // 配置 chains.rpc_urls 的 key，同时写入 tips.blockchain_network
	Symbol  string `json:"symbol"` // 原生币符号，用于报价
	Testnet bool   `json:"testnet"`
}

// 白名单，未列出的 chain_id 一律拒绝
var networks = map[uint64]Network{
	1:        {ChainID: 1, Name: "ethereum", Symbol: "ETH"},
	10:       {ChainID: 10, Name: "optimism", Symbol: "ETH"},
	137:      {ChainID: 137, Name: "polygon", Symbol: "MATIC"},
	8453:     {ChainID: 8453, Name: "base", Symbol: "ETH"},
	42161:    {ChainID: 42161, Name: "arbitrum", Symbol: "ETH"},
	11155111: {ChainID: 11155111, Name: "sepolia", Symbol: "ETH", Testnet: true},
	84532:    {ChainID: 84532, Name: "base-sepolia", Symbol: "ETH", Testnet: true},
}

// Lookup 按 chain_id 查找
func Lookup(chainID uint64) (Network, bool) {
	n, ok := networks[chainID]
	return n, ok
}

// All 返回按 chain_id 排序的白名单
func All() []Network {
	list := make([]Network, 0, len(networks))
	for _, n := range networks {
		list = append(list, n)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ChainID < list[j].ChainID })
	return list
}

// Symbols 白名单中出现的全部原生币符号 (去重)
func Symbols() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, n := range All() {
		if _, ok := seen[n.Symbol]; ok {
			continue
		}
		seen[n.Symbol] = struct{}{}
		out = append(out, n.Symbol)
	}
	return out
}

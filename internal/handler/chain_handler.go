package handler

import (
	"github.com/gin-gonic/gin"

	"tip-core/internal/handler/response"
	"tip-core/pkg/chain"
)

// ChainInfo 支持的链
type ChainInfo struct {
	ChainID uint64 `json:"chain_id"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	Testnet bool   `json:"testnet"`
}

func chainInfos(networks []chain.Network) []ChainInfo {
	out := make([]ChainInfo, 0, len(networks))
	for _, n := range networks {
		out = append(out, ChainInfo{ChainID: n.ChainID, Name: n.Name, Symbol: n.Symbol, Testnet: n.Testnet})
	}
	return out
}

// ListChains 链白名单
// @Summary 支持的链
// @Tags Chains
// @Produce json
// @Success 200 {object} response.Response{data=[]ChainInfo}
// @Router /api/v1/chains [get]
func ListChains(c *gin.Context) {
	response.Success(c, chainInfos(chain.All()))
}

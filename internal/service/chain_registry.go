package service

import (
	"errors"

	"github.com/alphaowl/premium_go_server/config"
	"github.com/alphaowl/premium_go_server/internal/model"
	"github.com/alphaowl/premium_go_server/internal/model/dto"
)

var (
	ErrInvalidChain       = errors.New("unsupported chain")
	ErrChainNotConfigured = errors.New("no deposit address configured for chain")
)

// ChainRegistry 链与收款地址的静态映射。
// 地址在配置里预先分配好，运行期内只读。
type ChainRegistry struct {
	chains map[string]config.ChainConfig
	order  []string
}

func NewChainRegistry(cfg *config.Config) *ChainRegistry {
	chains := make(map[string]config.ChainConfig, len(cfg.Chains))
	order := make([]string, 0, len(cfg.Chains))
	for _, chain := range cfg.Chains {
		if !model.IsValidChain(chain.Name) {
			continue
		}
		chains[chain.Name] = chain
		order = append(order, chain.Name)
	}

	return &ChainRegistry{chains: chains, order: order}
}

// AddressFor 查询链的收款地址
func (r *ChainRegistry) AddressFor(chain string) (string, error) {
	if !model.IsValidChain(chain) {
		return "", ErrInvalidChain
	}

	entry, ok := r.chains[chain]
	if !ok || entry.DepositAddress == "" {
		return "", ErrChainNotConfigured
	}
	return entry.DepositAddress, nil
}

// List 可选链列表（按配置顺序）
func (r *ChainRegistry) List() []dto.ChainInfo {
	infos := make([]dto.ChainInfo, 0, len(r.order))
	for _, name := range r.order {
		chain := r.chains[name]
		displayName := chain.DisplayName
		if displayName == "" {
			displayName = name
		}
		infos = append(infos, dto.ChainInfo{
			Name:        name,
			DisplayName: displayName,
			Token:       chain.Token,
		})
	}
	return infos
}

package contract

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ERC1155Creator is a high-level wrapper around a deployed ERC-1155 creator
// contract.
type ERC1155Creator struct {
	abi          abi.ABI
	address      common.Address
	contract     *bind.BoundContract
	backend      bind.ContractBackend
	transactOpts *bind.TransactOpts
}

// NewERC1155Creator connects to an already-deployed ERC-1155 creator contract.
func NewERC1155Creator(opts *bind.TransactOpts, addr common.Address, backend bind.ContractBackend) (*ERC1155Creator, error) {
	parsed, err := abi.JSON(strings.NewReader(ERC1155CreatorABI))
	if err != nil {
		return nil, err
	}
	bound := bind.NewBoundContract(addr, parsed, backend, backend, backend)
	return &ERC1155Creator{
		abi:          parsed,
		address:      addr,
		contract:     bound,
		backend:      backend,
		transactOpts: opts,
	}, nil
}

// Address returns the contract address.
func (c *ERC1155Creator) Address() common.Address {
	return c.address
}

// MintNew mints a fresh token id with the given supply and metadata URI.
func (c *ERC1155Creator) MintNew(to common.Address, amount *big.Int, tokenURI string) (*types.Transaction, error) {
	return c.contract.Transact(c.transactOpts, "mintNew", to, amount, tokenURI)
}

// MintExisting mints additional supply of an existing token id.
func (c *ERC1155Creator) MintExisting(to common.Address, tokenID, amount *big.Int) (*types.Transaction, error) {
	return c.contract.Transact(c.transactOpts, "mintExisting", to, tokenID, amount)
}

// URI reads the metadata URI of a token id.
func (c *ERC1155Creator) URI(tokenID *big.Int) (string, error) {
	var out []interface{}
	if err := c.contract.Call(nil, &out, "uri", tokenID); err != nil {
		return "", err
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

// BalanceOf reads the balance an owner holds of a token id.
func (c *ERC1155Creator) BalanceOf(owner common.Address, tokenID *big.Int) (*big.Int, error) {
	var out []interface{}
	if err := c.contract.Call(nil, &out, "balanceOf", owner, tokenID); err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

package contract

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ERC721Creator is a high-level wrapper around a deployed ERC-721 creator
// contract.
type ERC721Creator struct {
	abi          abi.ABI
	address      common.Address
	contract     *bind.BoundContract
	backend      bind.ContractBackend
	transactOpts *bind.TransactOpts
}

// NewERC721Creator connects to an already-deployed ERC-721 creator contract.
func NewERC721Creator(opts *bind.TransactOpts, addr common.Address, backend bind.ContractBackend) (*ERC721Creator, error) {
	parsed, err := abi.JSON(strings.NewReader(ERC721CreatorABI))
	if err != nil {
		return nil, err
	}
	bound := bind.NewBoundContract(addr, parsed, backend, backend, backend)
	return &ERC721Creator{
		abi:          parsed,
		address:      addr,
		contract:     bound,
		backend:      backend,
		transactOpts: opts,
	}, nil
}

// Address returns the contract address.
func (c *ERC721Creator) Address() common.Address {
	return c.address
}

// MintTo mints a new token to the given address with the given token URI.
func (c *ERC721Creator) MintTo(to common.Address, tokenURI string) (*types.Transaction, error) {
	return c.contract.Transact(c.transactOpts, "mintTo", to, tokenURI)
}

// SetTokenURI replaces the metadata URI of an existing token (creator-only).
func (c *ERC721Creator) SetTokenURI(tokenID *big.Int, tokenURI string) (*types.Transaction, error) {
	return c.contract.Transact(c.transactOpts, "setTokenURI", tokenID, tokenURI)
}

// TokenURI reads the metadata URI of a token.
func (c *ERC721Creator) TokenURI(tokenID *big.Int) (string, error) {
	var out []interface{}
	if err := c.contract.Call(nil, &out, "tokenURI", tokenID); err != nil {
		return "", err
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

// OwnerOf reads the current owner of a token.
func (c *ERC721Creator) OwnerOf(tokenID *big.Int) (common.Address, error) {
	var out []interface{}
	if err := c.contract.Call(nil, &out, "ownerOf", tokenID); err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

// BalanceOf reads the token count held by an owner.
func (c *ERC721Creator) BalanceOf(owner common.Address) (*big.Int, error) {
	var out []interface{}
	if err := c.contract.Call(nil, &out, "balanceOf", owner); err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// TotalSupply reads the number of tokens minted so far.
func (c *ERC721Creator) TotalSupply() (*big.Int, error) {
	var out []interface{}
	if err := c.contract.Call(nil, &out, "totalSupply"); err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

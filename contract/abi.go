// Package contract provides Go bindings for deployed ERC-721 and ERC-1155
// creator contracts: minting tokens against uploaded metadata URIs and
// reading token state back. Deployment and gas tuning are out of scope; the
// transact options passed in control signing.
package contract

// ERC721CreatorABI is the ABI subset of the ERC-721 creator contract this
// SDK drives. Regenerate bindings with abigen if the contract grows.
const ERC721CreatorABI = `[
	{
		"constant": false,
		"inputs": [
			{"name": "_to",  "type": "address"},
			{"name": "_uri", "type": "string"}
		],
		"name": "mintTo",
		"outputs": [{"name": "tokenId", "type": "uint256"}],
		"payable": false,
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "_tokenId", "type": "uint256"},
			{"name": "_uri",     "type": "string"}
		],
		"name": "setTokenURI",
		"outputs": [],
		"payable": false,
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [{"name": "_tokenId", "type": "uint256"}],
		"name": "tokenURI",
		"outputs": [{"name": "", "type": "string"}],
		"payable": false,
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [{"name": "_tokenId", "type": "uint256"}],
		"name": "ownerOf",
		"outputs": [{"name": "", "type": "address"}],
		"payable": false,
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [{"name": "_owner", "type": "address"}],
		"name": "balanceOf",
		"outputs": [{"name": "", "type": "uint256"}],
		"payable": false,
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "totalSupply",
		"outputs": [{"name": "", "type": "uint256"}],
		"payable": false,
		"type": "function"
	}
]`

// ERC1155CreatorABI is the ABI subset of the ERC-1155 creator contract.
const ERC1155CreatorABI = `[
	{
		"constant": false,
		"inputs": [
			{"name": "_to",     "type": "address"},
			{"name": "_amount", "type": "uint256"},
			{"name": "_uri",    "type": "string"}
		],
		"name": "mintNew",
		"outputs": [{"name": "tokenId", "type": "uint256"}],
		"payable": false,
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "_to",      "type": "address"},
			{"name": "_tokenId", "type": "uint256"},
			{"name": "_amount",  "type": "uint256"}
		],
		"name": "mintExisting",
		"outputs": [],
		"payable": false,
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [{"name": "_tokenId", "type": "uint256"}],
		"name": "uri",
		"outputs": [{"name": "", "type": "string"}],
		"payable": false,
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [
			{"name": "_owner",   "type": "address"},
			{"name": "_tokenId", "type": "uint256"}
		],
		"name": "balanceOf",
		"outputs": [{"name": "", "type": "uint256"}],
		"payable": false,
		"type": "function"
	}
]`

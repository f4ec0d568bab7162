// Package ledger talks to the document-issuance and document-NFT contracts
// over an Ethereum JSON-RPC endpoint.
package ledger

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"docmint/internal/documents/models"
	"docmint/pkg/platform/sentinel"
)

// Contract ABIs, trimmed to the entry points this service calls.
const issuanceABI = `[
	{"type":"function","name":"signDocument","stateMutability":"nonpayable","inputs":[{"name":"studentId","type":"uint256"},{"name":"documentType","type":"string"},{"name":"documentHash","type":"bytes32"},{"name":"metadataURI","type":"string"}],"outputs":[]},
	{"type":"function","name":"revokeDocument","stateMutability":"nonpayable","inputs":[{"name":"documentId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"getStudentIdByAddress","stateMutability":"view","inputs":[{"name":"wallet","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getStudentInfo","stateMutability":"view","inputs":[{"name":"studentId","type":"uint256"}],"outputs":[{"name":"fullName","type":"string"},{"name":"studentCode","type":"string"},{"name":"isActive","type":"bool"}]},
	{"type":"event","name":"DocumentSigned","inputs":[{"name":"documentId","type":"uint256","indexed":true},{"name":"tokenId","type":"uint256","indexed":true},{"name":"studentId","type":"uint256","indexed":true}],"anonymous":false}
]`

const nftABI = `[
	{"type":"function","name":"ownerOf","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"isDocumentValid","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"getDocumentMetadata","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"studentId","type":"uint256"},{"name":"documentType","type":"string"},{"name":"documentHash","type":"bytes32"},{"name":"issuedAt","type":"uint256"},{"name":"issuedBy","type":"address"},{"name":"isValid","type":"bool"}]},
	{"type":"function","name":"tokensOfStudent","stateMutability":"view","inputs":[{"name":"studentId","type":"uint256"}],"outputs":[{"name":"","type":"uint256[]"}]}
]`

// StudentProfile is the on-chain registry entry for a student.
type StudentProfile struct {
	ChainID     int64
	FullName    string
	StudentCode string
	IsActive    bool
}

// TokenMetadata mirrors getDocumentMetadata.
type TokenMetadata struct {
	StudentChainID int64
	DocumentType   string
	ContentDigest  string
	IssuedAt       time.Time
	IssuedBy       string
	IsValid        bool
}

// TokenVerification is the chain's view of one token.
type TokenVerification struct {
	Owner    string
	IsValid  bool
	Metadata TokenMetadata
}

// Client submits mint/revoke transactions with the admin key and reads the
// NFT contract for verification. All methods treat RPC transport failures as
// sentinel.ErrUnavailable.
type Client struct {
	eth           *ethclient.Client
	issuance      *bind.BoundContract
	issuanceAddr  common.Address
	nft           *bind.BoundContract
	issuanceIface abi.ABI
	txOpts        *bind.TransactOpts
	chainID       *big.Int
}

// New dials the RPC endpoint and binds both contracts.
func New(ctx context.Context, rpcURL, issuanceAddr, nftAddr, adminPrivateKey string) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w: %w", sentinel.ErrUnavailable, err)
	}
	chainID, err := eth.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve chain id: %w: %w", sentinel.ErrUnavailable, err)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(adminPrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse admin key: %w", err)
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("build transactor: %w", err)
	}

	issuanceIface, err := abi.JSON(strings.NewReader(issuanceABI))
	if err != nil {
		return nil, fmt.Errorf("parse issuance abi: %w", err)
	}
	nftIface, err := abi.JSON(strings.NewReader(nftABI))
	if err != nil {
		return nil, fmt.Errorf("parse nft abi: %w", err)
	}

	issAddr := common.HexToAddress(issuanceAddr)
	return &Client{
		eth:           eth,
		issuance:      bind.NewBoundContract(issAddr, issuanceIface, eth, eth, eth),
		issuanceAddr:  issAddr,
		nft:           bind.NewBoundContract(common.HexToAddress(nftAddr), nftIface, eth, eth, eth),
		issuanceIface: issuanceIface,
		txOpts:        opts,
		chainID:       chainID,
	}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

// Mint signs a document on chain and waits for the DocumentSigned event.
// digest must be a 0x-prefixed keccak-256 hex string.
func (c *Client) Mint(ctx context.Context, studentChainID int64, documentType, digest, metadataURI string) (models.MintResult, error) {
	hash, err := digestToBytes32(digest)
	if err != nil {
		return models.MintResult{}, err
	}

	opts := c.transactOpts(ctx)
	tx, err := c.issuance.Transact(opts, "signDocument",
		big.NewInt(studentChainID), documentType, hash, metadataURI)
	if err != nil {
		return models.MintResult{}, fmt.Errorf("sign document: %w: %w", sentinel.ErrUnavailable, err)
	}

	receipt, err := bind.WaitMined(ctx, c.eth, tx)
	if err != nil {
		return models.MintResult{}, fmt.Errorf("wait for mint receipt: %w: %w", sentinel.ErrUnavailable, err)
	}
	if receipt.Status != 1 {
		return models.MintResult{}, fmt.Errorf("mint transaction %s reverted", tx.Hash().Hex())
	}

	docID, tokenID, err := c.parseDocumentSigned(receipt.Logs)
	if err != nil {
		return models.MintResult{}, fmt.Errorf("mint transaction %s: %w", tx.Hash().Hex(), err)
	}
	return models.MintResult{
		TxHash:     tx.Hash().Hex(),
		ChainDocID: docID.String(),
		TokenID:    tokenID.String(),
	}, nil
}

// Revoke invalidates a signed document on chain and returns the tx hash.
func (c *Client) Revoke(ctx context.Context, chainDocID string) (string, error) {
	docID, ok := new(big.Int).SetString(chainDocID, 10)
	if !ok {
		return "", fmt.Errorf("invalid chain document id %q", chainDocID)
	}

	opts := c.transactOpts(ctx)
	tx, err := c.issuance.Transact(opts, "revokeDocument", docID)
	if err != nil {
		return "", fmt.Errorf("revoke document: %w: %w", sentinel.ErrUnavailable, err)
	}
	receipt, err := bind.WaitMined(ctx, c.eth, tx)
	if err != nil {
		return "", fmt.Errorf("wait for revoke receipt: %w: %w", sentinel.ErrUnavailable, err)
	}
	if receipt.Status != 1 {
		return "", fmt.Errorf("revoke transaction %s reverted", tx.Hash().Hex())
	}
	return tx.Hash().Hex(), nil
}

// ResolveChainID maps a wallet address to the student's on-chain id.
// Returns sentinel.ErrNotFound for unregistered wallets.
func (c *Client) ResolveChainID(ctx context.Context, walletAddress string) (int64, error) {
	var out []any
	err := c.issuance.Call(&bind.CallOpts{Context: ctx}, &out, "getStudentIdByAddress",
		common.HexToAddress(walletAddress))
	if err != nil {
		return 0, fmt.Errorf("resolve student id: %w: %w", sentinel.ErrUnavailable, err)
	}
	chainID := out[0].(*big.Int)
	if chainID.Sign() == 0 {
		return 0, fmt.Errorf("wallet %s not registered on chain: %w", walletAddress, sentinel.ErrNotFound)
	}
	return chainID.Int64(), nil
}

// StudentProfile reads the registry entry for an on-chain student id.
func (c *Client) StudentProfile(ctx context.Context, chainID int64) (StudentProfile, error) {
	var out []any
	err := c.issuance.Call(&bind.CallOpts{Context: ctx}, &out, "getStudentInfo", big.NewInt(chainID))
	if err != nil {
		return StudentProfile{}, fmt.Errorf("read student info: %w: %w", sentinel.ErrUnavailable, err)
	}
	return StudentProfile{
		ChainID:     chainID,
		FullName:    out[0].(string),
		StudentCode: out[1].(string),
		IsActive:    out[2].(bool),
	}, nil
}

// VerifyToken reads owner, validity flag and metadata for a token in one
// pass. A missing token surfaces as sentinel.ErrNotFound (ownerOf reverts).
func (c *Client) VerifyToken(ctx context.Context, tokenID string) (TokenVerification, error) {
	token, ok := new(big.Int).SetString(tokenID, 10)
	if !ok {
		return TokenVerification{}, fmt.Errorf("invalid token id %q", tokenID)
	}
	callOpts := &bind.CallOpts{Context: ctx}

	var ownerOut []any
	if err := c.nft.Call(callOpts, &ownerOut, "ownerOf", token); err != nil {
		if isRevert(err) {
			return TokenVerification{}, fmt.Errorf("token %s: %w", tokenID, sentinel.ErrNotFound)
		}
		return TokenVerification{}, fmt.Errorf("read token owner: %w: %w", sentinel.ErrUnavailable, err)
	}

	var validOut []any
	if err := c.nft.Call(callOpts, &validOut, "isDocumentValid", token); err != nil {
		return TokenVerification{}, fmt.Errorf("read token validity: %w: %w", sentinel.ErrUnavailable, err)
	}

	var metaOut []any
	if err := c.nft.Call(callOpts, &metaOut, "getDocumentMetadata", token); err != nil {
		return TokenVerification{}, fmt.Errorf("read token metadata: %w: %w", sentinel.ErrUnavailable, err)
	}

	hash := metaOut[2].([32]byte)
	return TokenVerification{
		Owner:   ownerOut[0].(common.Address).Hex(),
		IsValid: validOut[0].(bool),
		Metadata: TokenMetadata{
			StudentChainID: metaOut[0].(*big.Int).Int64(),
			DocumentType:   metaOut[1].(string),
			ContentDigest:  "0x" + common.Bytes2Hex(hash[:]),
			IssuedAt:       time.Unix(metaOut[3].(*big.Int).Int64(), 0).UTC(),
			IssuedBy:       metaOut[4].(common.Address).Hex(),
			IsValid:        metaOut[5].(bool),
		},
	}, nil
}

// StudentTokens lists all token ids minted for an on-chain student id.
func (c *Client) StudentTokens(ctx context.Context, chainID int64) ([]string, error) {
	var out []any
	err := c.nft.Call(&bind.CallOpts{Context: ctx}, &out, "tokensOfStudent", big.NewInt(chainID))
	if err != nil {
		return nil, fmt.Errorf("list student tokens: %w: %w", sentinel.ErrUnavailable, err)
	}
	raw := out[0].([]*big.Int)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		tokens = append(tokens, t.String())
	}
	return tokens, nil
}

func (c *Client) transactOpts(ctx context.Context) *bind.TransactOpts {
	opts := *c.txOpts
	opts.Context = ctx
	return &opts
}

func (c *Client) parseDocumentSigned(logs []*types.Log) (docID, tokenID *big.Int, err error) {
	event := c.issuanceIface.Events["DocumentSigned"]
	for _, entry := range logs {
		if entry.Address != c.issuanceAddr || len(entry.Topics) != 4 {
			continue
		}
		if entry.Topics[0] != event.ID {
			continue
		}
		// All three parameters are indexed, so the values live in the topics.
		return new(big.Int).SetBytes(entry.Topics[1].Bytes()),
			new(big.Int).SetBytes(entry.Topics[2].Bytes()), nil
	}
	return nil, nil, fmt.Errorf("no DocumentSigned event in receipt")
}

func digestToBytes32(digest string) ([32]byte, error) {
	var out [32]byte
	raw := common.FromHex(digest)
	if len(raw) != 32 {
		return out, fmt.Errorf("content digest must be 32 bytes, got %d", len(raw))
	}
	copy(out[:], raw)
	return out, nil
}

func isRevert(err error) bool {
	return err != nil && strings.Contains(err.Error(), "revert")
}

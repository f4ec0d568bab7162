package ledger

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestToBytes32(t *testing.T) {
	digest := "0x" + strings.Repeat("ab", 32)
	out, err := digestToBytes32(digest)
	require.NoError(t, err)
	assert.Equal(t, byte(0xab), out[0])
	assert.Equal(t, byte(0xab), out[31])

	_, err = digestToBytes32("0x1234")
	require.Error(t, err)
}

func TestParseDocumentSigned(t *testing.T) {
	iface, err := abi.JSON(strings.NewReader(issuanceABI))
	require.NoError(t, err)

	addr := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	client := &Client{issuanceIface: iface, issuanceAddr: addr}

	event := iface.Events["DocumentSigned"]
	logEntry := &types.Log{
		Address: addr,
		Topics: []common.Hash{
			event.ID,
			common.BigToHash(big.NewInt(7)),  // documentId
			common.BigToHash(big.NewInt(42)), // tokenId
			common.BigToHash(big.NewInt(3)),  // studentId
		},
	}

	docID, tokenID, err := client.parseDocumentSigned([]*types.Log{
		{Address: common.HexToAddress("0xbb")}, // unrelated log, skipped
		logEntry,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), docID.Int64())
	assert.Equal(t, int64(42), tokenID.Int64())

	_, _, err = client.parseDocumentSigned(nil)
	require.Error(t, err)
}

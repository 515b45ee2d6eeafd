// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package api_test

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"

	"github.com/BoostyLabs/ord-index/api"
	"github.com/BoostyLabs/ord-index/bitcoin/ord/inscriptions"
	"github.com/BoostyLabs/ord-index/indexer"
	"github.com/BoostyLabs/ord-index/internal/store"
)

func newTestContext(t *testing.T) *indexer.Context {
	t.Helper()
	root := store.New(store.NewMemEngine())

	return indexer.NewContext(root, nil, &chaincfg.MainNetParams, nil)
}

func ownerAddress(t *testing.T, seed byte) *btcutil.AddressPubKeyHash {
	t.Helper()

	hash160 := make([]byte, 20)
	for i := range hash160 {
		hash160[i] = seed
	}

	addr, err := btcutil.NewAddressPubKeyHash(hash160, &chaincfg.MainNetParams)
	require.NoError(t, err)

	return addr
}

func ownerScript(t *testing.T, seed byte) []byte {
	t.Helper()

	script, err := txscript.PayToAddrScript(ownerAddress(t, seed))
	require.NoError(t, err)

	return script
}

func buildInscriptionScript(t *testing.T, contentType string, body []byte) []byte {
	t.Helper()

	builder := txscript.NewScriptBuilder()
	builder.AddOp(txscript.OP_FALSE)
	builder.AddOp(txscript.OP_IF)
	builder.AddData([]byte("ord"))
	builder.AddOps(inscriptions.TagContentType.IntoDataPush())
	builder.AddData([]byte(contentType))
	builder.AddOp(txscript.OP_0)
	builder.AddData(body)
	builder.AddOp(txscript.OP_ENDIF)

	script, err := builder.Script()
	require.NoError(t, err)

	return script
}

// genesisBlock builds a single-inscription block at the given height,
// with the reveal's sole output paying owner, and returns the block
// alongside the inscription ID it mints.
func genesisBlock(t *testing.T, contentType string, body []byte, owner []byte) (*wire.MsgBlock, *inscriptions.ID) {
	t.Helper()

	coinbase := &wire.MsgTx{
		TxIn:  []*wire.TxIn{{PreviousOutPoint: wire.OutPoint{Index: 0xffffffff}}},
		TxOut: []*wire.TxOut{{Value: 50 * 100_000_000}},
	}

	revealScript := buildInscriptionScript(t, contentType, body)
	reveal := &wire.MsgTx{
		TxIn: []*wire.TxIn{{
			PreviousOutPoint: wire.OutPoint{Hash: coinbase.TxHash(), Index: 0},
			Witness:          wire.TxWitness{revealScript, {0xc0}},
		}},
		TxOut: []*wire.TxOut{{Value: 49 * 100_000_000, PkScript: owner}},
	}

	hash := reveal.TxHash()
	id := &inscriptions.ID{TxID: &hash, Index: 0}

	return &wire.MsgBlock{Transactions: []*wire.MsgTx{coinbase, reveal}}, id
}

func TestReader_GetInscriptionAndByNumber(t *testing.T) {
	ctx := newTestContext(t)
	owner := ownerScript(t, 0x01)
	block, id := genesisBlock(t, "text/plain", []byte("hello"), owner)

	_, err := indexer.ApplyBlock(ctx, block, 0, nil)
	require.NoError(t, err)

	reader := api.NewReader(ctx.Catalog, ctx.Ledger, ctx.Events, ctx.EVM)

	entry, err := reader.GetInscription(id)
	require.NoError(t, err)
	require.Equal(t, id.String(), entry.ID.String())
	require.NotNil(t, entry.ContentType)
	require.Equal(t, "text/plain", *entry.ContentType)

	byNumber, err := reader.GetInscriptionByNumber(0)
	require.NoError(t, err)
	require.Equal(t, id.String(), byNumber.ID.String())

	unknown, err := inscriptions.NewIDFromString(id.String())
	require.NoError(t, err)
	unknown.Index = 99
	_, err = reader.GetInscription(unknown)
	require.ErrorIs(t, err, api.ErrNotFound)
}

func TestReader_GetInscriptions_NoFilterListsAll(t *testing.T) {
	ctx := newTestContext(t)
	owner := ownerScript(t, 0x02)

	block, _ := genesisBlock(t, "text/plain", []byte("one"), owner)
	_, err := indexer.ApplyBlock(ctx, block, 0, nil)
	require.NoError(t, err)

	reader := api.NewReader(ctx.Catalog, ctx.Ledger, ctx.Events, ctx.EVM)

	entries, page, err := reader.GetInscriptions(api.InscriptionFilter{}, 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 1, page.Total)
	require.False(t, page.More)
	require.Equal(t, api.MaxLimit, page.Limit)
}

func TestReader_GetInscriptions_ContentTypeFilterAndPaging(t *testing.T) {
	ctx := newTestContext(t)
	owner := ownerScript(t, 0x03)

	block, _ := genesisBlock(t, "text/plain", []byte("one"), owner)
	_, err := indexer.ApplyBlock(ctx, block, 0, nil)
	require.NoError(t, err)

	reader := api.NewReader(ctx.Catalog, ctx.Ledger, ctx.Events, ctx.EVM)

	contentType := "text/plain"
	entries, page, err := reader.GetInscriptions(api.InscriptionFilter{ContentType: &contentType}, 1, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 1, page.Limit)
	require.False(t, page.More)
}

func buildDelegatingScript(t *testing.T, delegate *inscriptions.ID) []byte {
	t.Helper()

	builder := txscript.NewScriptBuilder()
	builder.AddOp(txscript.OP_FALSE)
	builder.AddOp(txscript.OP_IF)
	builder.AddData([]byte("ord"))
	builder.AddData([]byte{byte(inscriptions.TagDelegate)})
	builder.AddData(delegate.IntoDataPush())
	builder.AddOp(txscript.OP_ENDIF)

	script, err := builder.Script()
	require.NoError(t, err)

	return script
}

func TestReader_GetContent_FollowsDelegate(t *testing.T) {
	ctx := newTestContext(t)
	owner := ownerScript(t, 0x04)

	baseBlock, baseID := genesisBlock(t, "text/plain", []byte("delegated body"), owner)
	_, err := indexer.ApplyBlock(ctx, baseBlock, 0, nil)
	require.NoError(t, err)

	delegatorCoinbase := &wire.MsgTx{
		TxIn:  []*wire.TxIn{{PreviousOutPoint: wire.OutPoint{Index: 0xffffffff}}},
		TxOut: []*wire.TxOut{{Value: 50 * 100_000_000}},
	}
	delegatorScript := buildDelegatingScript(t, baseID)
	delegatorReveal := &wire.MsgTx{
		TxIn: []*wire.TxIn{{
			PreviousOutPoint: wire.OutPoint{Hash: delegatorCoinbase.TxHash(), Index: 0},
			Witness:          wire.TxWitness{delegatorScript, {0xc0}},
		}},
		TxOut: []*wire.TxOut{{Value: 49 * 100_000_000, PkScript: owner}},
	}
	delegatorHash := delegatorReveal.TxHash()
	delegatorID := &inscriptions.ID{TxID: &delegatorHash, Index: 0}

	delegatorBlock := &wire.MsgBlock{Transactions: []*wire.MsgTx{delegatorCoinbase, delegatorReveal}}
	_, err = indexer.ApplyBlock(ctx, delegatorBlock, 1, nil)
	require.NoError(t, err)

	reader := api.NewReader(ctx.Catalog, ctx.Ledger, ctx.Events, ctx.EVM)

	body, contentType, err := reader.GetContent(delegatorID)
	require.NoError(t, err)
	require.Equal(t, "delegated body", string(body))
	require.Equal(t, "text/plain", contentType)

	ownBody, _, err := reader.GetUndelegatedContent(delegatorID)
	require.NoError(t, err)
	require.Empty(t, ownBody)
}

func TestReader_BlockLookups(t *testing.T) {
	ctx := newTestContext(t)
	owner := ownerScript(t, 0x05)
	block, _ := genesisBlock(t, "text/plain", []byte("x"), owner)

	_, err := indexer.ApplyBlock(ctx, block, 7, nil)
	require.NoError(t, err)

	reader := api.NewReader(ctx.Catalog, ctx.Ledger, ctx.Events, ctx.EVM)

	hash, err := reader.GetBlockHashAtHeight(7)
	require.NoError(t, err)
	require.Equal(t, block.BlockHash(), hash)

	aliasHash, err := reader.GetBlockHash(7)
	require.NoError(t, err)
	require.Equal(t, hash, aliasHash)

	height, err := reader.GetBlockHeight(hash)
	require.NoError(t, err)
	require.EqualValues(t, 7, height)

	timestamp, err := reader.GetBlockTime(7)
	require.NoError(t, err)
	require.EqualValues(t, uint32(block.Header.Timestamp.Unix()), timestamp)

	info, err := reader.GetBlockInfo(7)
	require.NoError(t, err)
	require.Equal(t, hash, info.Hash)
	require.Equal(t, timestamp, info.Timestamp)

	_, err = reader.GetBlockHashAtHeight(999)
	require.ErrorIs(t, err, api.ErrNotFound)
}

func TestReader_GetTxAndUTXO(t *testing.T) {
	ctx := newTestContext(t)
	owner := ownerScript(t, 0x06)
	block, id := genesisBlock(t, "text/plain", []byte("x"), owner)

	_, err := indexer.ApplyBlock(ctx, block, 0, nil)
	require.NoError(t, err)

	reader := api.NewReader(ctx.Catalog, ctx.Ledger, ctx.Events, ctx.EVM)

	ids, err := reader.GetTx(*id.TxID)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	require.Equal(t, id.String(), ids[0].String())

	utxo, err := reader.GetUTXO(wire.OutPoint{Hash: *id.TxID, Index: 0})
	require.NoError(t, err)
	require.Len(t, utxo, 1)
	require.Equal(t, id.String(), utxo[0].String())
}

func TestReader_GetSat(t *testing.T) {
	ctx := newTestContext(t)
	owner := ownerScript(t, 0x07)
	block, id := genesisBlock(t, "text/plain", []byte("x"), owner)

	_, err := indexer.ApplyBlock(ctx, block, 0, nil)
	require.NoError(t, err)

	reader := api.NewReader(ctx.Catalog, ctx.Ledger, ctx.Events, ctx.EVM)

	info, err := reader.GetSat(0)
	require.NoError(t, err)
	require.NotNil(t, info.FirstInscription)
	require.Equal(t, id.String(), info.FirstInscription.String())
	require.NotEmpty(t, info.Rarity)

	first, err := reader.GetSatInscription(0)
	require.NoError(t, err)
	require.Equal(t, id.String(), first.ID.String())
}

func brc20Script(t *testing.T, body []byte) []byte {
	t.Helper()

	builder := txscript.NewScriptBuilder()
	builder.AddOp(txscript.OP_FALSE)
	builder.AddOp(txscript.OP_IF)
	builder.AddData([]byte("ord"))
	builder.AddData([]byte{byte(inscriptions.TagContentType)})
	builder.AddData([]byte("text/plain;charset=utf-8"))
	builder.AddOp(txscript.OP_0)
	builder.AddData(body)
	builder.AddOp(txscript.OP_ENDIF)

	script, err := builder.Script()
	require.NoError(t, err)

	return script
}

func TestReader_GetBalanceAndEvents(t *testing.T) {
	ctx := newTestContext(t)
	owner := ownerScript(t, 0x08)

	coinbase := &wire.MsgTx{
		TxIn:  []*wire.TxIn{{PreviousOutPoint: wire.OutPoint{Index: 0xffffffff}}},
		TxOut: []*wire.TxOut{{Value: 50 * 100_000_000}},
	}
	deployScript := brc20Script(t, []byte(`{"p":"brc-20","op":"deploy","tick":"ordi","max":"1000","lim":"1000"}`))
	deployReveal := &wire.MsgTx{
		TxIn: []*wire.TxIn{{
			PreviousOutPoint: wire.OutPoint{Hash: coinbase.TxHash(), Index: 0},
			Witness:          wire.TxWitness{deployScript, {0xc0}},
		}},
		TxOut: []*wire.TxOut{{Value: 49 * 100_000_000, PkScript: owner}},
	}
	deployBlock := &wire.MsgBlock{Transactions: []*wire.MsgTx{coinbase, deployReveal}}
	_, err := indexer.ApplyBlock(ctx, deployBlock, 0, nil)
	require.NoError(t, err)

	mintCoinbase := &wire.MsgTx{
		TxIn:  []*wire.TxIn{{PreviousOutPoint: wire.OutPoint{Index: 0xffffffff}}},
		TxOut: []*wire.TxOut{{Value: 50 * 100_000_000}},
	}
	mintScript := brc20Script(t, []byte(`{"p":"brc-20","op":"mint","tick":"ordi","amt":"100"}`))
	mintReveal := &wire.MsgTx{
		TxIn: []*wire.TxIn{{
			PreviousOutPoint: wire.OutPoint{Hash: mintCoinbase.TxHash(), Index: 0},
			Witness:          wire.TxWitness{mintScript, {0xc0}},
		}},
		TxOut: []*wire.TxOut{{Value: 49 * 100_000_000, PkScript: owner}},
	}
	mintBlock := &wire.MsgBlock{Transactions: []*wire.MsgTx{mintCoinbase, mintReveal}}
	_, err = indexer.ApplyBlock(ctx, mintBlock, 1, nil)
	require.NoError(t, err)

	reader := api.NewReader(ctx.Catalog, ctx.Ledger, ctx.Events, ctx.EVM)

	balance, err := reader.GetBalance(ownerAddress(t, 0x08).EncodeAddress(), "ordi")
	require.NoError(t, err)
	require.EqualValues(t, 100, balance.TotalBalance)

	events, err := reader.GetBrc20Events(0, 1)
	require.NoError(t, err)
	require.Len(t, events, 2)
}

func TestReader_CallWithoutEVM(t *testing.T) {
	ctx := newTestContext(t)
	reader := api.NewReader(ctx.Catalog, ctx.Ledger, ctx.Events, ctx.EVM)

	err := reader.Call("deadbeef", nil)
	require.ErrorIs(t, err, api.ErrEVMNotWired)
}

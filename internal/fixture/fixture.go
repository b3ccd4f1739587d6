// Package fixture decodes the JSON documents cmd/txvalidate reads: a
// ledger snapshot (prior outputs to seed a ledgerstore.Store with) and a
// candidate transaction to validate against it. JSON is kept as a
// separate wire layer, unlike the teacher repo, which tags its own
// core.Transaction fields for json, so the claim package itself knows
// nothing about any particular wire format.
package fixture

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/covenantchain/ledger/internal/asset"
	"github.com/covenantchain/ledger/internal/claim"
	"github.com/covenantchain/ledger/internal/ledgerstore"
)

// Document is the top-level shape of a fixture file: the ledger state to
// seed plus the transaction to validate against it.
type Document struct {
	RefHead        uint32       `json:"ref_head"`
	EnforceUnspent bool         `json:"enforce_unspent"`
	StakePrev1     string       `json:"stake_prev1,omitempty"`
	StakePrev2     string       `json:"stake_prev2,omitempty"`
	Units          []UnitDecl   `json:"units,omitempty"`
	PriorOutputs   []PriorEntry `json:"prior_outputs"`
	Transaction    Transaction  `json:"transaction"`
}

// UnitDecl registers a non-native asset unit with a human-readable
// symbol before the snapshot is built.
type UnitDecl struct {
	Unit   uint16 `json:"unit"`
	Symbol string `json:"symbol"`
}

// PriorEntry seeds one prior output into the ledger snapshot.
type PriorEntry struct {
	TxID   string `json:"tx_id"`
	Index  uint32 `json:"index"`
	Block  uint32 `json:"block"`
	Output Output `json:"output"`
}

// Transaction is the wire form of claim.SignedTransaction.
type Transaction struct {
	ID                 string   `json:"id"`
	Inputs             []Input  `json:"inputs"`
	Outputs            []Output `json:"outputs"`
	Stake              string   `json:"stake,omitempty"`
	SignedAddresses    []string `json:"signed_addresses,omitempty"`
	SignedPtsAddresses []string `json:"signed_pts_addresses,omitempty"`
}

// Input is the wire form of claim.TxInput.
type Input struct {
	PriorTxID  string `json:"prior_tx_id"`
	PriorIndex uint32 `json:"prior_index"`
	WitnessHex string `json:"witness,omitempty"`
}

// Output is the wire form of claim.TxOutput: a tagged claim union keyed
// by Kind.
type Output struct {
	Amount uint64 `json:"amount"`
	Unit   uint16 `json:"unit"`
	Claim  Claim  `json:"claim"`
}

// Claim carries every field any claim variant might need; only the ones
// relevant to Kind are read.
type Claim struct {
	Kind        string     `json:"kind"`
	Owner       string     `json:"owner,omitempty"`
	PayAddress  string     `json:"pay_address,omitempty"`
	AskPrice    *WirePrice `json:"ask_price,omitempty"`
	Payoff      *WireAsset `json:"payoff,omitempty"`
	PayoffOwner string     `json:"payoff_owner,omitempty"`
}

// WirePrice is the wire form of asset.Price.
type WirePrice struct {
	BaseUnit  uint16 `json:"base_unit"`
	QuoteUnit uint16 `json:"quote_unit"`
	Num       uint64 `json:"num"`
	Den       uint64 `json:"den"`
}

// WireAsset is the wire form of asset.Asset.
type WireAsset struct {
	Amount uint64 `json:"amount"`
	Unit   uint16 `json:"unit"`
}

// Parse decodes a fixture document from raw JSON bytes.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("fixture: decoding document: %w", err)
	}
	return &doc, nil
}

func decodeHex(s string, out []byte) error {
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("fixture: invalid hex %q: %w", s, err)
	}
	if len(b) != len(out) {
		return fmt.Errorf("fixture: expected %d bytes, got %d in %q", len(out), len(b), s)
	}
	copy(out, b)
	return nil
}

func decodeAddress(s string) (claim.Address, error) {
	var a claim.Address
	if s == "" {
		return a, nil
	}
	err := decodeHex(s, a[:])
	return a, err
}

func decodePtsAddress(s string) (claim.PtsAddress, error) {
	var a claim.PtsAddress
	if s == "" {
		return a, nil
	}
	err := decodeHex(s, a[:])
	return a, err
}

func decodeBlockID(s string) (claim.BlockID, error) {
	var b claim.BlockID
	if s == "" {
		return b, nil
	}
	err := decodeHex(s, b[:])
	return b, err
}

func decodeTxID(s string) (claim.TxID, error) {
	var id claim.TxID
	if s == "" {
		return id, nil
	}
	err := decodeHex(s, id[:])
	return id, err
}

func (w WirePrice) toDomain() asset.Price {
	return asset.Price{
		BaseUnit:  asset.Unit(w.BaseUnit),
		QuoteUnit: asset.Unit(w.QuoteUnit),
		Num:       w.Num,
		Den:       w.Den,
	}
}

func (w WireAsset) toDomain() asset.Asset {
	return asset.Asset{Amount: w.Amount, Unit: asset.Unit(w.Unit)}
}

func (c Claim) toDomain() (claim.Payload, error) {
	switch c.Kind {
	case "signature":
		owner, err := decodeAddress(c.Owner)
		if err != nil {
			return nil, err
		}
		return claim.SignatureClaim{Owner: owner}, nil
	case "pts":
		owner, err := decodePtsAddress(c.Owner)
		if err != nil {
			return nil, err
		}
		return claim.PtsClaim{Owner: owner}, nil
	case "bid":
		pay, err := decodeAddress(c.PayAddress)
		if err != nil {
			return nil, err
		}
		if c.AskPrice == nil {
			return nil, fmt.Errorf("fixture: bid claim missing ask_price")
		}
		return claim.BidClaim{PayAddress: pay, AskPrice: c.AskPrice.toDomain()}, nil
	case "long":
		pay, err := decodeAddress(c.PayAddress)
		if err != nil {
			return nil, err
		}
		if c.AskPrice == nil {
			return nil, fmt.Errorf("fixture: long claim missing ask_price")
		}
		return claim.LongClaim{PayAddress: pay, AskPrice: c.AskPrice.toDomain()}, nil
	case "cover":
		owner, err := decodeAddress(c.PayoffOwner)
		if err != nil {
			return nil, err
		}
		if c.Payoff == nil {
			return nil, fmt.Errorf("fixture: cover claim missing payoff")
		}
		return claim.CoverClaim{Payoff: c.Payoff.toDomain(), Owner: owner}, nil
	case "opt_execute":
		return claim.OptExecuteClaim{}, nil
	case "multisig":
		return claim.MultiSigClaim{}, nil
	case "escrow":
		return claim.EscrowClaim{}, nil
	case "password":
		return claim.PasswordClaim{}, nil
	default:
		return nil, fmt.Errorf("fixture: unknown claim kind %q", c.Kind)
	}
}

func (o Output) toDomain() (claim.TxOutput, error) {
	payload, err := o.Claim.toDomain()
	if err != nil {
		return claim.TxOutput{}, err
	}
	return claim.TxOutput{
		Amount: asset.Asset{Amount: o.Amount, Unit: asset.Unit(o.Unit)},
		Claim:  payload,
	}, nil
}

// ToTransaction converts the wire Transaction to a claim.SignedTransaction.
func (t Transaction) ToTransaction() (*claim.SignedTransaction, error) {
	id, err := decodeTxID(t.ID)
	if err != nil {
		return nil, err
	}
	stake, err := decodeBlockID(t.Stake)
	if err != nil {
		return nil, err
	}

	inputs := make([]claim.TxInput, len(t.Inputs))
	for i, in := range t.Inputs {
		priorID, err := decodeTxID(in.PriorTxID)
		if err != nil {
			return nil, fmt.Errorf("fixture: input %d: %w", i, err)
		}
		var witness []byte
		if in.WitnessHex != "" {
			witness, err = hex.DecodeString(in.WitnessHex)
			if err != nil {
				return nil, fmt.Errorf("fixture: input %d: invalid witness hex: %w", i, err)
			}
		}
		inputs[i] = claim.TxInput{PriorTxID: priorID, PriorIndex: in.PriorIndex, Witness: witness}
	}

	outputs := make([]claim.TxOutput, len(t.Outputs))
	for i, out := range t.Outputs {
		o, err := out.toDomain()
		if err != nil {
			return nil, fmt.Errorf("fixture: output %d: %w", i, err)
		}
		outputs[i] = o
	}

	signedAddrs := make([]claim.Address, len(t.SignedAddresses))
	for i, s := range t.SignedAddresses {
		a, err := decodeAddress(s)
		if err != nil {
			return nil, fmt.Errorf("fixture: signed_addresses[%d]: %w", i, err)
		}
		signedAddrs[i] = a
	}

	signedPts := make([]claim.PtsAddress, len(t.SignedPtsAddresses))
	for i, s := range t.SignedPtsAddresses {
		a, err := decodePtsAddress(s)
		if err != nil {
			return nil, fmt.Errorf("fixture: signed_pts_addresses[%d]: %w", i, err)
		}
		signedPts[i] = a
	}

	return claim.NewSignedTransaction(id, inputs, outputs, stake, signedAddrs, signedPts), nil
}

// BuildStore seeds a fresh ledgerstore.Store with every prior output the
// document declares, and registers every declared asset unit.
func (d *Document) BuildStore(log *zap.Logger) (*ledgerstore.Store, *asset.Registry, error) {
	registry := asset.NewRegistry()
	for _, u := range d.Units {
		registry.Register(asset.Unit(u.Unit), u.Symbol)
	}

	store := ledgerstore.New(log)
	for i, entry := range d.PriorOutputs {
		txID, err := decodeTxID(entry.TxID)
		if err != nil {
			return nil, nil, fmt.Errorf("fixture: prior_outputs[%d]: %w", i, err)
		}
		out, err := entry.Output.toDomain()
		if err != nil {
			return nil, nil, fmt.Errorf("fixture: prior_outputs[%d]: %w", i, err)
		}
		store.Seed(txID, entry.Index, entry.Block, out)
	}
	return store, registry, nil
}

// StakeWindow decodes the document's declared two-block stake anchor.
func (d *Document) StakeWindow() (claim.BlockID, claim.BlockID, error) {
	p1, err := decodeBlockID(d.StakePrev1)
	if err != nil {
		return claim.BlockID{}, claim.BlockID{}, err
	}
	p2, err := decodeBlockID(d.StakePrev2)
	if err != nil {
		return claim.BlockID{}, claim.BlockID{}, err
	}
	return p1, p2, nil
}

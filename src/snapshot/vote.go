package snapshot

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// DefaultHubURL is the Snapshot hub message ingestion endpoint.
const DefaultHubURL = "https://hub.snapshot.org/api/message"

// voteTypes is the EIP-712 schema Snapshot expects for an off-chain vote.
// Domain carries only name and version; there is no chain binding.
var voteTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
	},
	"Vote": {
		{Name: "from", Type: "address"},
		{Name: "space", Type: "string"},
		{Name: "timestamp", Type: "uint64"},
		{Name: "proposal", Type: "string"},
		{Name: "choice", Type: "uint32"},
		{Name: "reason", Type: "string"},
		{Name: "app", Type: "string"},
		{Name: "metadata", Type: "string"},
	},
}

var voteDomain = apitypes.TypedDataDomain{
	Name:    "snapshot",
	Version: "0.1.4",
}

// VoteClient signs votes with a local key and submits them to the hub.
type VoteClient struct {
	hubURL     string
	space      string
	key        *ecdsa.PrivateKey
	address    common.Address
	httpClient *http.Client

	// now is swappable for tests.
	now func() time.Time
}

func NewVoteClient(hubURL, space, privateKeyHex string) (*VoteClient, error) {
	if strings.TrimSpace(hubURL) == "" {
		hubURL = DefaultHubURL
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("snapshot: parse vote key: %w", err)
	}
	return &VoteClient{
		hubURL:     hubURL,
		space:      space,
		key:        key,
		address:    crypto.PubkeyToAddress(key.PublicKey),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}, nil
}

// Address returns the signing address.
func (v *VoteClient) Address() string { return v.address.Hex() }

// CastVote signs an EIP-712 vote message for the proposal and submits it to
// the hub.
func (v *VoteClient) CastVote(ctx context.Context, proposalID string, choice uint32) error {
	timestamp := v.now().Unix()

	typedData := apitypes.TypedData{
		Types:       voteTypes,
		PrimaryType: "Vote",
		Domain:      voteDomain,
		Message: apitypes.TypedDataMessage{
			"from":      v.address.Hex(),
			"space":     v.space,
			"timestamp": (*math.HexOrDecimal256)(big.NewInt(timestamp)),
			"proposal":  proposalID,
			"choice":    (*math.HexOrDecimal256)(big.NewInt(int64(choice))),
			"reason":    "",
			"app":       "snapshot-v2",
			"metadata":  "",
		},
	}

	digest, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return fmt.Errorf("snapshot: hash vote: %w", err)
	}
	sig, err := crypto.Sign(digest, v.key)
	if err != nil {
		return fmt.Errorf("snapshot: sign vote: %w", err)
	}
	// The hub expects an Ethereum-style recovery id.
	sig[64] += 27

	payload := map[string]any{
		"address": v.address.Hex(),
		"msg": map[string]any{
			"from":      v.address.Hex(),
			"space":     v.space,
			"timestamp": timestamp,
			"proposal":  proposalID,
			"choice":    choice,
			"reason":    "",
			"app":       "snapshot-v2",
			"metadata":  "",
		},
		"sig": hexutil.Encode(sig),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("snapshot: encode vote: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.hubURL, bytes.NewReader(body))
	if err != nil {
		return &Error{Kind: ErrTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: ErrTransport, Err: err}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return &Error{Kind: ErrProtocol, Err: fmt.Errorf("hub rejected vote: %s: %s", resp.Status, truncate(respBody, 256))}
	}
	return nil
}

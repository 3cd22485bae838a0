package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/cleanmate.space/internal/platform/errors"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"
)

const networksFixture = `{
  "vechain-testnet": {
    "CleanupFactory": {"address": "0x00000000000000000000000000000000000000C1", "startBlock": 2000},
    "UserRegistry": {"address": "0x00000000000000000000000000000000000000c2", "startBlock": 1500},
    "RewardsManager": {"address": "0x00000000000000000000000000000000000000c3", "startBlock": 1800},
    "AddressesProvider": {"address": "0x00000000000000000000000000000000000000c4", "startBlock": 1200},
    "Streak": {"address": "0x00000000000000000000000000000000000000c5", "startBlock": 3000}
  },
  "vechain-mainnet": {
    "CleanupFactory": {"address": "0x00000000000000000000000000000000000000d1", "startBlock": 1}
  }
}`

func TestLoadNetwork(t *testing.T) {
	path := filepath.Join(t.TempDir(), "networks.json")
	if err := os.WriteFile(path, []byte(networksFixture), 0o600); err != nil {
		t.Fatalf("write networks: %v", err)
	}
	network, err := LoadNetwork(path, "vechain-testnet")
	if err != nil {
		t.Fatalf("load network: %v", err)
	}
	if len(network.Contracts) != len(RequiredContracts) {
		t.Fatalf("contracts = %d", len(network.Contracts))
	}
	if got := network.StartBlock(); got != 1200 {
		t.Fatalf("start block = %d, want 1200", got)
	}
	factory := network.Contracts["CleanupFactory"]
	if factory.Address != "0x00000000000000000000000000000000000000c1" || factory.StartBlock != 2000 {
		t.Fatalf("factory = %+v", factory)
	}
	name, ok := network.ContractName(domain.Address("0x00000000000000000000000000000000000000c5"))
	if !ok || name != "Streak" {
		t.Fatalf("contract name = %q, %v", name, ok)
	}
}

func TestParseNetworkErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		network string
		want    string
	}{
		{name: "malformed", data: `{`, network: "x", want: "decode networks"},
		{name: "unknown network", data: networksFixture, network: "ethereum", want: "expected one of vechain-mainnet, vechain-testnet"},
		{name: "missing contract", data: networksFixture, network: "vechain-mainnet", want: `missing "vechain-mainnet.UserRegistry"`},
		{name: "bad address", data: `{"n":{"Streak":{"address":"0x12","startBlock":1}}}`, network: "n", want: "n.Streak.address is invalid"},
		{name: "missing address", data: `{"n":{"Streak":{"startBlock":1}}}`, network: "n", want: "n.Streak.address must be a string"},
		{name: "negative start", data: `{"n":{"Streak":{"address":"0x00000000000000000000000000000000000000c5","startBlock":-1}}}`, network: "n", want: "startBlock must be a non-negative number"},
		{name: "missing start", data: `{"n":{"Streak":{"address":"0x00000000000000000000000000000000000000c5"}}}`, network: "n", want: "startBlock must be a non-negative number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNetwork([]byte(tt.data), tt.network)
			if apperrors.CodeOf(err) != apperrors.CodeInvalidNetwork {
				t.Fatalf("code = %s (%v), want %s", apperrors.CodeOf(err), err, apperrors.CodeInvalidNetwork)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadNetworkMissingFile(t *testing.T) {
	if _, err := LoadNetwork(filepath.Join(t.TempDir(), "networks.json"), "x"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

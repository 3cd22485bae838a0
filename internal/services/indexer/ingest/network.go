package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	apperrors "github.com/louisbranch/cleanmate.space/internal/platform/errors"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"
)

// RequiredContracts are the data sources every network must configure.
var RequiredContracts = []string{"CleanupFactory", "UserRegistry", "RewardsManager", "AddressesProvider", "Streak"}

// Contract is one configured data source.
type Contract struct {
	Address    domain.Address
	StartBlock uint64
}

// Network is the contract configuration of one chain.
type Network struct {
	Name      string
	Contracts map[string]Contract
}

type contractJSON struct {
	Address    *string `json:"address"`
	StartBlock *int64  `json:"startBlock"`
}

// LoadNetwork reads the named network from a networks.json file.
func LoadNetwork(path, name string) (Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Network{}, fmt.Errorf("read networks file: %w", err)
	}
	return ParseNetwork(data, name)
}

// ParseNetwork decodes networks.json content and validates the named network.
func ParseNetwork(data []byte, name string) (Network, error) {
	var networks map[string]map[string]contractJSON
	if err := json.Unmarshal(data, &networks); err != nil {
		return Network{}, apperrors.Wrap(apperrors.CodeInvalidNetwork, "decode networks", err)
	}
	name = strings.TrimSpace(name)
	raw, ok := networks[name]
	if !ok {
		known := make([]string, 0, len(networks))
		for key := range networks {
			known = append(known, key)
		}
		sort.Strings(known)
		return Network{}, apperrors.New(apperrors.CodeInvalidNetwork,
			fmt.Sprintf("unknown network %q: expected one of %s", name, strings.Join(known, ", ")))
	}

	network := Network{Name: name, Contracts: make(map[string]Contract, len(raw))}
	for key, contract := range raw {
		parsed, err := parseContract(name, key, contract)
		if err != nil {
			return Network{}, err
		}
		network.Contracts[key] = parsed
	}
	if err := network.Validate(); err != nil {
		return Network{}, err
	}
	return network, nil
}

func parseContract(network, key string, raw contractJSON) (Contract, error) {
	field := network + "." + key
	if raw.Address == nil {
		return Contract{}, apperrors.New(apperrors.CodeInvalidNetwork, field+".address must be a string")
	}
	address, err := domain.ParseAddress(*raw.Address)
	if err != nil {
		return Contract{}, apperrors.Wrap(apperrors.CodeInvalidNetwork, field+".address is invalid", err)
	}
	if raw.StartBlock == nil || *raw.StartBlock < 0 {
		return Contract{}, apperrors.New(apperrors.CodeInvalidNetwork, field+".startBlock must be a non-negative number")
	}
	return Contract{Address: address, StartBlock: uint64(*raw.StartBlock)}, nil
}

// Validate checks that every required contract is configured.
func (n Network) Validate() error {
	for _, key := range RequiredContracts {
		if _, ok := n.Contracts[key]; !ok {
			return apperrors.New(apperrors.CodeInvalidNetwork, fmt.Sprintf("networks.json missing %q", n.Name+"."+key))
		}
	}
	return nil
}

// StartBlock is the earliest block any configured contract is indexed from.
func (n Network) StartBlock() uint64 {
	var start uint64
	first := true
	for _, contract := range n.Contracts {
		if first || contract.StartBlock < start {
			start = contract.StartBlock
			first = false
		}
	}
	return start
}

// ContractName returns the data source name configured for address.
func (n Network) ContractName(address domain.Address) (string, bool) {
	for key, contract := range n.Contracts {
		if contract.Address == address {
			return key, true
		}
	}
	return "", false
}

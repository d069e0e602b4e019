package config

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"

	"github.com/courtdata/statsync/internal/domain/endpoint"
)

// LoadContracts reads the endpoint contract catalog from a JSON file. The
// file is a plain array of contracts; every entry is validated before the
// catalog is returned so a typo fails startup instead of a sync run.
func LoadContracts(path string) ([]endpoint.Contract, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read contracts file %s: %w", path, err)
	}

	var contracts []endpoint.Contract
	if err := sonic.Unmarshal(raw, &contracts); err != nil {
		return nil, fmt.Errorf("decode contracts file %s: %w", path, err)
	}
	if len(contracts) == 0 {
		return nil, fmt.Errorf("contracts file %s is empty", path)
	}

	seen := make(map[string]struct{}, len(contracts))
	for _, contract := range contracts {
		if err := contract.Validate(); err != nil {
			return nil, fmt.Errorf("invalid contract %q: %w", contract.Name, err)
		}
		if _, dup := seen[contract.Name]; dup {
			return nil, fmt.Errorf("duplicate contract %q", contract.Name)
		}
		seen[contract.Name] = struct{}{}
	}
	return contracts, nil
}

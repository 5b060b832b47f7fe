package contract

import (
	"fmt"
	"math/big"
	"os"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v2"
)

// Registry maps network ids to deployed contract addresses.
type Registry struct {
	addresses map[string]common.Address
}

func NewRegistry(addresses map[string]string) (*Registry, error) {
	r := &Registry{addresses: make(map[string]common.Address)}
	if err := r.Merge(addresses); err != nil {
		return nil, err
	}
	return r, nil
}

// Merge adds the given entries, replacing existing ones for the same network.
func (r *Registry) Merge(addresses map[string]string) error {
	for id, addr := range addresses {
		if _, ok := new(big.Int).SetString(id, 10); !ok {
			return fmt.Errorf("invalid network id %q", id)
		}
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("invalid contract address %q for network %s", addr, id)
		}
		r.addresses[id] = common.HexToAddress(addr)
	}
	return nil
}

// Lookup returns the contract address deployed on the given network.
func (r *Registry) Lookup(networkID *big.Int) (common.Address, bool) {
	if networkID == nil {
		return common.Address{}, false
	}
	addr, ok := r.addresses[networkID.String()]
	return addr, ok
}

// Networks returns the known network ids in ascending order.
func (r *Registry) Networks() []string {
	var ids []string
	for id := range r.addresses {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, _ := new(big.Int).SetString(ids[i], 10)
		b, _ := new(big.Int).SetString(ids[j], 10)
		return a.Cmp(b) < 0
	})
	return ids
}

type overridesFile struct {
	Networks map[interface{}]string `yaml:"networks"`
}

// LoadOverrides reads extra deployments from a YAML file of the form
//
//	networks:
//	  5777: "0x..."
func LoadOverrides(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f overridesFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("failed to parse overrides file: %w", err)
	}
	res := make(map[string]string, len(f.Networks))
	for k, v := range f.Networks {
		res[fmt.Sprint(k)] = v
	}
	return res, nil
}

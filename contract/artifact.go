package contract

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

//go:embed NameReg.json
var nameRegArtifact []byte

// Network is a deployment entry of the artifact.
type Network struct {
	Address string `json:"address"`
}

// Artifact is the build artifact of the name registration contract: its
// interface description and the addresses it is deployed at, keyed by network id.
type Artifact struct {
	ContractName string
	ABI          abi.ABI
	Networks     map[string]Network
}

type artifactJSON struct {
	ContractName string             `json:"contractName"`
	ABI          json.RawMessage    `json:"abi"`
	Networks     map[string]Network `json:"networks"`
}

// LoadArtifact parses a Truffle-style contract artifact.
func LoadArtifact(r io.Reader) (*Artifact, error) {
	var raw artifactJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode artifact: %w", err)
	}
	if len(raw.ABI) == 0 {
		return nil, fmt.Errorf("artifact has no abi")
	}
	parsed, err := abi.JSON(strings.NewReader(string(raw.ABI)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi: %w", err)
	}
	for _, m := range requiredMethods {
		if _, ok := parsed.Methods[m]; !ok {
			return nil, fmt.Errorf("abi is missing method %s", m)
		}
	}
	networks := raw.Networks
	if networks == nil {
		networks = make(map[string]Network)
	}
	return &Artifact{
		ContractName: raw.ContractName,
		ABI:          parsed,
		Networks:     networks,
	}, nil
}

// DefaultArtifact returns the artifact compiled into the binary.
func DefaultArtifact() (*Artifact, error) {
	return LoadArtifact(bytes.NewReader(nameRegArtifact))
}

// Registry builds the network registry from the artifact deployments.
func (a *Artifact) Registry() (*Registry, error) {
	m := make(map[string]string, len(a.Networks))
	for id, n := range a.Networks {
		m[id] = n.Address
	}
	return NewRegistry(m)
}

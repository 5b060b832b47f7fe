package bc

import (
	"fmt"
	"os"
	"strings"

	"github.com/regnull/namereg/globals"
)

// GetNodeURL resolves a network name (main, sepolia) or a URL into the
// JSON-RPC endpoint of a node.
func GetNodeURL(network string, projectId string) (string, error) {
	if strings.HasPrefix(network, "http://") || strings.HasPrefix(network, "https://") ||
		strings.HasPrefix(network, "ws://") || strings.HasPrefix(network, "wss://") {
		return network, nil
	}
	if network == "" || network == "local" {
		return globals.DefaultNodeURL, nil
	}
	if projectId == "" {
		projectId = os.Getenv("INFURA_PROJECT_ID")
	}
	if projectId == "" {
		return "", fmt.Errorf("invalid project id")
	}
	switch network {
	case "main":
		return fmt.Sprintf(globals.InfuraNodeURL, projectId), nil
	case "sepolia":
		return fmt.Sprintf(globals.InfuraSepoliaNodeURL, projectId), nil
	}
	return "", fmt.Errorf("invalid network")
}

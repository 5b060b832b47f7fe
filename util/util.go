package util

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"os"
	"path"
	"strings"

	"github.com/ethereum/go-ethereum/params"
	"golang.org/x/term"
)

const (
	defaultHomeSubDir  = ".namereg"
	defaultKeyFile     = "key"
	defaultKeystoreDir = "keystore"
	defaultHistoryDir  = "history"
)

func homeSubDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return path.Join(homeDir, defaultHomeSubDir), nil
}

// GetDefaultKeyLocation returns the location of the easyecc key file.
func GetDefaultKeyLocation() (string, error) {
	dir, err := homeSubDir()
	if err != nil {
		return "", err
	}
	return path.Join(dir, defaultKeyFile), nil
}

// GetDefaultKeystoreDir returns the location of the keystore directory.
func GetDefaultKeystoreDir() (string, error) {
	dir, err := homeSubDir()
	if err != nil {
		return "", err
	}
	return path.Join(dir, defaultKeystoreDir), nil
}

// GetDefaultHistoryDir returns the location of the badger history database.
func GetDefaultHistoryDir() (string, error) {
	dir, err := homeSubDir()
	if err != nil {
		return "", err
	}
	return path.Join(dir, defaultHistoryDir), nil
}

// FileExists returns true if the file exists and is not a directory.
func FileExists(name string) bool {
	info, err := os.Stat(name)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ReadPassphrase reads the passphrase from the terminal without echo. If stdin
// is not a terminal, a single line is read instead.
func ReadPassphrase(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return readLine(os.Stdin)
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	return string(b), nil
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Confirm writes the prompt and reads a yes/no answer. Anything other than
// "y" or "yes" is a no.
func Confirm(r io.Reader, w io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(w, "%s [y/N]: ", prompt)
	answer, err := readLine(r)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// FormatWei formats the amount in ether, trimming trailing zeros.
func FormatWei(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	f := new(big.Float).SetPrec(256).SetInt(wei)
	f.Quo(f, new(big.Float).SetPrec(256).SetInt64(params.Ether))
	s := f.Text('f', 18)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

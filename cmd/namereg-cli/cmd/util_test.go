package cmd

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ConfigFromFlags(t *testing.T) {
	assert := assert.New(t)

	home := t.TempDir()
	t.Setenv("HOME", home)

	require.NoError(t, feeCmd.ParseFlags([]string{
		"--key", "/tmp/namereg-key",
		"--fee-unit", "gwei",
		"--gas-limit", "500000",
		"--network", "sepolia",
		"--yes",
	}))
	c, err := configFromFlags(feeCmd)
	assert.NoError(err)
	assert.Equal("/tmp/namereg-key", c.KeyFile)
	assert.Equal("gwei", c.FeeUnit)
	assert.Equal("sepolia", c.Network)
	assert.EqualValues(500000, c.GasLimit)
	assert.Equal(time.Minute, c.WaitTimeout)
	assert.Equal(filepath.Join(home, ".namereg", "history"), c.HistoryDir)
	assert.Nil(c.Approver)
	assert.NotNil(c.Passphrase)
}

func Test_ConfigFromFlags_Confirm(t *testing.T) {
	assert := assert.New(t)

	t.Setenv("HOME", t.TempDir())
	require.NoError(t, cancelCmd.ParseFlags([]string{"--mysql-dsn", "user:pass@/namereg", "--yes=false"}))
	c, err := configFromFlags(cancelCmd)
	assert.NoError(err)
	assert.NotNil(c.Approver)
	assert.Equal("user:pass@/namereg", c.MySQLDSN)
	assert.Empty(c.HistoryDir)
}

package bc

import (
	"fmt"
	"testing"

	"github.com/regnull/namereg/globals"
	"github.com/stretchr/testify/assert"
)

func TestGetNodeURL(t *testing.T) {
	assert := assert.New(t)
	t.Setenv("INFURA_PROJECT_ID", "")

	url, err := GetNodeURL("http://18.223.40.196:8545", "")
	assert.NoError(err)
	assert.Equal("http://18.223.40.196:8545", url)

	url, err = GetNodeURL("", "")
	assert.NoError(err)
	assert.Equal(globals.DefaultNodeURL, url)

	url, err = GetNodeURL("main", "abc")
	assert.NoError(err)
	assert.Equal(fmt.Sprintf(globals.InfuraNodeURL, "abc"), url)

	url, err = GetNodeURL("sepolia", "abc")
	assert.NoError(err)
	assert.Equal(fmt.Sprintf(globals.InfuraSepoliaNodeURL, "abc"), url)

	_, err = GetNodeURL("main", "")
	assert.Error(err)

	t.Setenv("INFURA_PROJECT_ID", "xyz")
	url, err = GetNodeURL("main", "")
	assert.NoError(err)
	assert.Equal(fmt.Sprintf(globals.InfuraNodeURL, "xyz"), url)

	_, err = GetNodeURL("foo", "abc")
	assert.Error(err)
}

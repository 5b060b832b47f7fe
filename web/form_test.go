package web

import (
	"errors"
	"testing"

	"github.com/regnull/namereg/bc"
	"github.com/stretchr/testify/assert"
)

func Test_ParseForm(t *testing.T) {
	assert := assert.New(t)

	f, err := ParseForm("register", " abc ", "10")
	assert.NoError(err)
	assert.Equal(Form{Operation: bc.OpRegister, Name: "abc", Blocks: 10}, f)
	assert.True(f.ShowBlocks())

	f, err = ParseForm("renew", "abc", "")
	assert.NoError(err)
	assert.EqualValues(0, f.Blocks)

	f, err = ParseForm("cancel", "abc", "10")
	assert.NoError(err)
	assert.EqualValues(0, f.Blocks)
	assert.False(f.ShowBlocks())

	f, err = ParseForm("register", "abc", "ten")
	assert.Error(err)
	assert.Equal(bc.OpRegister, f.Operation)

	_, err = ParseForm("transfer", "abc", "10")
	assert.ErrorIs(err, bc.ErrInvalidOperation)
}

func Test_Form_Reset(t *testing.T) {
	assert := assert.New(t)

	f := Form{Operation: bc.OpCancel, Name: "abc", Blocks: 3}
	f.Reset()
	assert.Equal(Form{Operation: bc.OpCancel}, f)
	assert.Equal(bc.OpRegister, NewForm().Operation)
}

func Test_Flash(t *testing.T) {
	assert := assert.New(t)

	f := NewFlash()
	f.Notify(bc.Notification{Kind: bc.Alert, Message: "no provider"})
	f.Notify(bc.Notification{Kind: bc.Failure, Message: "failed", Err: errors.New("boom")})
	f.Notify(bc.Notification{Kind: bc.Success, Message: "ok"})

	messages := f.Drain()
	assert.Len(messages, 2)
	assert.Equal(bc.Failure, messages[0].Kind)
	assert.Equal(bc.Success, messages[1].Kind)
	assert.Empty(f.Drain())
}

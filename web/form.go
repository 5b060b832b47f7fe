package web

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/regnull/namereg/bc"
)

// Form is the state of the operation form.
type Form struct {
	Operation bc.Operation
	Name      string
	Blocks    uint64
}

func NewForm() Form {
	return Form{Operation: bc.OpRegister}
}

// Reset clears the name and the number of blocks. The selected operation is
// kept.
func (f *Form) Reset() {
	f.Name = ""
	f.Blocks = 0
}

// ShowBlocks is false for operations that don't take a duration.
func (f Form) ShowBlocks() bool {
	return f.Operation.UsesBlocks()
}

// ParseForm builds the form from submitted values. The number of blocks is
// ignored for cancel.
func ParseForm(operation, name, blocks string) (Form, error) {
	op, err := bc.ParseOperation(operation)
	if err != nil {
		return Form{}, err
	}
	f := Form{Operation: op, Name: strings.TrimSpace(name)}
	if !op.UsesBlocks() {
		return f, nil
	}
	blocks = strings.TrimSpace(blocks)
	if blocks == "" {
		return f, nil
	}
	n, err := strconv.ParseUint(blocks, 10, 64)
	if err != nil {
		return f, fmt.Errorf("invalid number of blocks %q", blocks)
	}
	f.Blocks = n
	return f, nil
}

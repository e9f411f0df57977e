package common

import (
	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/axiomesh/axiom-vault/pkg/packer"
)

// NewRevertErrorWithReason builds an abi custom error revert that also matches reason with errors.Is,
// args must match inputs
func NewRevertErrorWithReason(reason error, name string, inputs abi.Arguments, args []any) error {
	err := packer.PackErrorArgs(abi.NewError(name, inputs), reason, args...)
	if err != nil {
		panic(err)
	}
	return err
}

package validatex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/escrowdeck/internal/common"
)

type sampleForm struct {
	Email   string `validate:"required,email"`
	Wallet  string `validate:"required,eth_addr_hex"`
	Amount  string `validate:"required"`
	Confirm string `validate:"eqfield=Amount"`
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(sampleForm{
		Email:   "buyer@example.com",
		Wallet:  "0x2d7812b2000f995c01417e576dc123587e4b39e4",
		Amount:  "1.5",
		Confirm: "1.5",
	})
	assert.NoError(t, err)
}

func TestStruct_Invalid(t *testing.T) {
	err := Struct(sampleForm{
		Email:   "not-an-email",
		Wallet:  "0x123",
		Amount:  "",
		Confirm: "x",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Contains(t, err.Error(), "Email must be a valid email address")
	assert.Contains(t, err.Error(), "hex address")
	assert.Contains(t, err.Error(), "Amount is required")
}

func TestStruct_EthAddrHexCaseInsensitive(t *testing.T) {
	type form struct {
		Wallet string `validate:"eth_addr_hex"`
	}
	assert.NoError(t, Struct(form{Wallet: "0x2D7812B2000F995C01417E576DC123587E4B39E4"}))
	assert.NoError(t, Struct(form{Wallet: "0x2d7812B2000f995C01417e576Dc123587e4B39e4"}))
	assert.Error(t, Struct(form{Wallet: "2d7812b2000f995c01417e576dc123587e4b39e4"}))
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("buyer@example.com", "email"))
	err := Var("nope", "email")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)
}

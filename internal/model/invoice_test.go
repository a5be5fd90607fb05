package model_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rezonia/facturx/internal/model"
)

func TestApplyDefaults(t *testing.T) {
	inv := &model.Invoice{}
	inv.ApplyDefaults()

	assert.Equal(t, model.TypeCommercialInvoice, inv.TypeCode)
	assert.Equal(t, model.ProfileEN16931, inv.Profile)

	// Explicit values survive
	inv = &model.Invoice{TypeCode: model.TypeCreditNote, Profile: model.ProfileBasic}
	inv.ApplyDefaults()

	assert.Equal(t, model.TypeCreditNote, inv.TypeCode)
	assert.Equal(t, model.ProfileBasic, inv.Profile)
}

func TestParseError(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := model.NewParseError("ExchangedDocument", "missing document identity section", cause)

	assert.Contains(t, err.Error(), "ExchangedDocument")
	assert.Contains(t, err.Error(), "unexpected EOF")
	assert.ErrorIs(t, err, cause)

	bare := model.NewParseError("document", "empty XML document", nil)
	assert.Equal(t, "[document] empty XML document", bare.Error())
}

func TestGenerateError(t *testing.T) {
	err := &model.GenerateError{Errors: []string{"BT-1: invoice number is required", "BT-5: bad currency"}}
	assert.Contains(t, err.Error(), "2 error(s)")
	assert.Contains(t, err.Error(), "BT-1")

	empty := &model.GenerateError{}
	assert.Equal(t, "invoice failed validation", empty.Error())
}

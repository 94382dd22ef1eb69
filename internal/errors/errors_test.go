// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solan/internal/loc"
)

func TestInputMissing_HasNoLocation(t *testing.T) {
	d := InputMissing("AST file not found")

	assert.Equal(t, CodeInputMissing, d.Code)
	assert.Equal(t, Error, d.Level)
	assert.True(t, d.Location.Zero())
	assert.Equal(t, "INPUT_MISSING: AST file not found", d.Error())
}

func TestInputMalformed_CarriesLocation(t *testing.T) {
	where := loc.SourceLocation{Line: 4, Column: 2}

	d := InputMalformed(where, "ContractDefinition missing a name")

	assert.Equal(t, CodeInputMalformed, d.Code)
	assert.Equal(t, where, d.Location)
	assert.Equal(t, "INPUT_MALFORMED: ContractDefinition missing a name at 4:2", d.Error())
}

func TestUnsupportedConstruct_IsAWarning(t *testing.T) {
	d := UnsupportedConstruct(loc.SourceLocation{Line: 1, Column: 1}, "InlineAssembly")

	assert.Equal(t, Warning, d.Level)
	assert.Equal(t, CodeUnsupportedConstruct, d.Code)
	assert.Contains(t, d.Message, "InlineAssembly")
}

func TestInternalInvariantViolated_WrapsACauseWithStackTrace(t *testing.T) {
	d := InternalInvariantViolated(loc.SourceLocation{}, "version referenced before definition")

	require.Error(t, d.Cause)
	assert.Equal(t, CodeInternalInvariantViolated, d.Code)
}

func TestWithNote_AppendsAndReturnsSameDiagnostic(t *testing.T) {
	d := InputMalformed(loc.SourceLocation{}, "bad shape")

	returned := d.WithNote("first").WithNote("second")

	assert.Same(t, d, returned)
	assert.Equal(t, []string{"first", "second"}, d.Notes)
}

func TestCode_FatalToContractAndFatalToRun(t *testing.T) {
	assert.False(t, CodeInputMissing.FatalToContract())
	assert.False(t, CodeInputMissing.FatalToRun())

	assert.True(t, CodeInputMalformed.FatalToContract())
	assert.False(t, CodeInputMalformed.FatalToRun())

	assert.False(t, CodeUnsupportedConstruct.FatalToContract())
	assert.False(t, CodeUnsupportedConstruct.FatalToRun())

	assert.True(t, CodeInternalInvariantViolated.FatalToContract())
	assert.True(t, CodeInternalInvariantViolated.FatalToRun())
}

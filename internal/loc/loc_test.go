// SPDX-License-Identifier: Apache-2.0

package loc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceLocation_ZeroAndString(t *testing.T) {
	var zero SourceLocation
	assert.True(t, zero.Zero())
	assert.Equal(t, "<unknown>", zero.String())

	set := SourceLocation{Line: 3, Column: 7}
	assert.False(t, set.Zero())
	assert.Equal(t, "3:7", set.String())
}

// SPDX-License-Identifier: Apache-2.0

package callclass

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"solan/internal/classify"
)

func TestClassify(t *testing.T) {
	known := map[string]bool{"_transfer": true}

	cases := []struct {
		name   string
		callee classify.Expr
		want   Kind
	}{
		{"known identifier is internal", classify.Ident{Name: "_transfer"}, Internal},
		{"unknown identifier is external", classify.Ident{Name: "IERC20"}, External},
		{"call member is low-level external", classify.Member{Base: classify.Ident{Name: "msg"}, Name: "call"}, LowLevelExternal},
		{"send member is low-level external", classify.Member{Base: classify.Ident{Name: "recipient"}, Name: "send"}, LowLevelExternal},
		{"transfer member is low-level external", classify.Member{Base: classify.Ident{Name: "recipient"}, Name: "transfer"}, LowLevelExternal},
		{"delegatecall member is delegatecall", classify.Member{Base: classify.Ident{Name: "lib"}, Name: "delegatecall"}, Delegatecall},
		{"staticcall member is staticcall", classify.Member{Base: classify.Ident{Name: "lib"}, Name: "staticcall"}, Staticcall},
		{"unrelated member is external", classify.Member{Base: classify.Ident{Name: "token"}, Name: "transferFrom"}, External},
		{"interface-cast call-shaped base is external", classify.Member{Base: classify.Call{Callee: classify.Ident{Name: "IA"}}, Name: "hello"}, External},
		{"unmodeled callee shape defaults to external", classify.Opaque{Text: "<NewExpression>"}, External},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(classify.Call{Callee: tc.callee}, known)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestKind_IsExternalFlavor(t *testing.T) {
	assert.False(t, Internal.IsExternalFlavor())
	assert.True(t, External.IsExternalFlavor())
	assert.True(t, LowLevelExternal.IsExternalFlavor())
	assert.True(t, Delegatecall.IsExternalFlavor())
	assert.True(t, Staticcall.IsExternalFlavor())
}

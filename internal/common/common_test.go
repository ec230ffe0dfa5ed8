package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitQualified(t *testing.T) {
	tests := []struct {
		in      string
		wantPkg string
		wantTyp string
	}{
		{"formspec/examples/accounts.User", "formspec/examples/accounts", "User"},
		{"accounts.User", "accounts", "User"},
		{"User", "", "User"},
		{"example.com/pkg", "", "example.com/pkg"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			pkg, typ := SplitQualified(tt.in)
			assert.Equal(t, tt.wantPkg, pkg)
			assert.Equal(t, tt.wantTyp, typ)
		})
	}
}

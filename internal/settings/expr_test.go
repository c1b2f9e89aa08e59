package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpr(t *testing.T) {
	scope := func(name string) (Value, bool) {
		switch name {
		case "project_url":
			return String("http://x/"), true
		case "hosts":
			return List("a"), true
		}
		return Value{}, false
	}

	tests := []struct {
		name string
		raw  string
		want Value
		refs []string
	}{
		{name: "plain text", raw: "static/", want: String("static/")},
		{name: "empty", raw: "", want: String("")},
		{name: "single ref", raw: "${hosts}", want: List("a"), refs: []string{"hosts"}},
		{name: "ref with suffix", raw: "${project_url}static/", want: String("http://x/static/"), refs: []string{"project_url"}},
		{name: "escaped dollar", raw: "$${project_url}", want: String("${project_url}")},
		{name: "lone dollar", raw: "cost $5", want: String("cost $5")},
		{name: "trailing dollar", raw: "a$", want: String("a$")},
		{name: "two refs", raw: "${project_url}-${project_url}", want: String("http://x/-http://x/"), refs: []string{"project_url", "project_url"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := ParseExpr(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.refs, expr.Refs())

			got, err := expr.Eval(scope)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %#v, got %#v", tt.want, got)
		})
	}
}

func TestParseExprErrors(t *testing.T) {
	for _, raw := range []string{"${", "${project_url", "${}", "${bad name}"} {
		_, err := ParseExpr(raw)
		assert.ErrorIs(t, err, ErrInvalidExpression, raw)
	}
}

func TestExprStringRoundTrip(t *testing.T) {
	for _, raw := range []string{"${project_url}static/", "${base_url}", "plain", "$$literal"} {
		expr, err := ParseExpr(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, expr.String())
	}
}

func TestMustParseExprPanics(t *testing.T) {
	assert.Panics(t, func() { MustParseExpr("${") })
}

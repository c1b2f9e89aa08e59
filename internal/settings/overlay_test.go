package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlaySetRebindsInPlace(t *testing.T) {
	o := NewOverlay("test")
	o.SetValue("a", String("1"))
	o.SetValue("b", String("2"))
	o.SetValue("a", String("3"))

	decls := o.Declarations()
	require.Len(t, decls, 2)
	assert.Equal(t, "a", decls[0].Name)
	assert.Equal(t, "b", decls[1].Name)

	v, err := decls[0].Expr.Eval(nil)
	require.NoError(t, err)
	assert.True(t, v.Equal(String("3")))
}

func TestOverlayMergeKeepsReceiverOrder(t *testing.T) {
	file := NewOverlay("file",
		Declaration{Name: KeyBaseURL, Expr: Literal(String("http://file/"))},
		Declaration{Name: KeyProjectURL, Expr: Ref(KeyBaseURL)},
	)
	env := NewOverlay("env",
		Declaration{Name: KeyBaseURL, Expr: Literal(String("http://env/"))},
		Declaration{Name: KeySecretKey, Expr: Literal(String("s3cr3t"))},
	)

	file.Merge(env)

	var names []string
	for _, d := range file.Declarations() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{KeyBaseURL, KeyProjectURL, KeySecretKey}, names)

	eff, err := Apply(Base(), file)
	require.NoError(t, err)
	project, err := eff.String(KeyProjectURL)
	require.NoError(t, err)
	assert.Equal(t, "http://env/", project)
}

func TestOverlayNilSafety(t *testing.T) {
	var o *Overlay
	assert.False(t, o.Declares("a"))
	assert.Zero(t, o.Len())
	assert.Nil(t, o.Declarations())
	assert.Zero(t, o.Clone().Len())
}

func TestOverlayDeclares(t *testing.T) {
	o := DerivedOverlay()
	assert.True(t, o.Declares(KeyProjectURL))
	assert.True(t, o.Declares(KeyMediaURL))
	assert.True(t, o.Declares(KeyGeneratedArtifactURL))
	assert.False(t, o.Declares(KeyBaseURL))
	assert.Equal(t, 3, o.Len())
}

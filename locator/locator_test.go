package locator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNull(t *testing.T) {
	assert.True(t, Null().IsNull())
	assert.False(t, Null().Valid())
	// the legacy zero pair is a real address, not null
	assert.False(t, Loc{}.IsNull())
	assert.True(t, Loc{}.Valid())
}

func TestEquality(t *testing.T) {
	assert.Equal(t, New(1, 8192), Loc{FileNo: 1, Ofs: 8192})
	assert.NotEqual(t, New(1, 8192), New(2, 8192))
	assert.NotEqual(t, New(1, 8192), New(1, 8208))
}

func TestString(t *testing.T) {
	assert.Equal(t, "null", Null().String())
	assert.Equal(t, "1:2000", New(1, 8192).String())
}

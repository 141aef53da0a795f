package anchor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorName_Lookups(t *testing.T) {
	name, ok := ErrorName(2006)
	assert.True(t, ok)
	assert.Equal(t, "ConstraintSeeds", name)

	code, ok := ErrorCodeByName("AccountDiscriminatorMismatch")
	assert.True(t, ok)
	assert.Equal(t, uint32(3002), code)

	_, ok = ErrorName(5999)
	assert.False(t, ok)
}

func TestErrorTable_Inverse(t *testing.T) {
	for code, name := range errorNames {
		back, ok := ErrorCodeByName(name)
		assert.True(t, ok, name)
		assert.Equal(t, code, back)
	}
}

func TestIsCustomError_Boundary(t *testing.T) {
	assert.False(t, IsCustomError(5999))
	assert.True(t, IsCustomError(6000))
	assert.True(t, IsCustomError(6001))
}

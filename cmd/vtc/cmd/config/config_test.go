package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMask(t *testing.T) {
	assert.Equal(t, "", mask(""))
	assert.Equal(t, "****", mask("short"))
	assert.Equal(t, "sk-****cdef", mask("sk-0123456789abcdef"))
}

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassForMime(t *testing.T) {
	assert.Equal(t, ClassImage, ClassForMime("image/png"))
	assert.Equal(t, ClassImage, ClassForMime("image/jpeg"))
	assert.Equal(t, ClassRaw, ClassForMime("application/pdf"))
	assert.Equal(t, ClassRaw, ClassForMime(""))
	assert.Equal(t, ClassRaw, ClassForMime("text/plain"))
}

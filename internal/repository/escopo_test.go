package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEscopo_Permite(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	assert.True(t, EscopoGlobal.Permite(&a))
	assert.True(t, EscopoGlobal.Permite(nil))

	assert.True(t, EscopoDe(&a).Permite(&a))
	assert.False(t, EscopoDe(&a).Permite(&b))
	assert.False(t, EscopoDe(&a).Permite(nil))

	assert.True(t, EscopoDe(nil).Permite(nil))
	assert.False(t, EscopoDe(nil).Permite(&a))
}

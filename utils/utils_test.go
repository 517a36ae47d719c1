package utils

import (
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDigestUuid(t *testing.T) {
	a := DigestUuid("pos-1|100|50", "pos-2|200|80")
	b := DigestUuid("pos-2|200|80", "pos-1|100|50")
	c := DigestUuid("pos-1|100|50", "pos-2|200|81")

	// order independent, value sensitive
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	_, err := uuid.FromString(a)
	assert.NoError(t, err)
}

func TestDigestUuidEmpty(t *testing.T) {
	assert.Equal(t, DigestUuid(), DigestUuid())
	assert.NotEmpty(t, DigestUuid())
}

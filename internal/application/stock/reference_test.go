package stock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewReference(t *testing.T) {
	at := time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC)
	ref := NewReference(PrefixOut, at)
	assert.Regexp(t, `^OUT-20240309-[0-9A-F]{6}$`, ref)
	assert.NotEqual(t, ref, NewReference(PrefixOut, at))
	assert.Equal(t, "RETURN-LOAN-20240309-ABC123", ReturnReference("LOAN-20240309-ABC123"))
}

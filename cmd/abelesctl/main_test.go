package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bob-anderson-ok/abeles"
)

func TestParsePolarization(t *testing.T) {
	p, err := parsePolarization("")
	require.NoError(t, err)
	assert.Equal(t, abeles.PolMixed, p)

	p, err = parsePolarization("s")
	require.NoError(t, err)
	assert.Equal(t, abeles.PolS, p)

	p, err = parsePolarization("p")
	require.NoError(t, err)
	assert.Equal(t, abeles.PolP, p)

	_, err = parsePolarization("circular")
	assert.Error(t, err)
}

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/pods/internal/common"
)

func TestParseAdminCode(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		wantParty string
		wantSlot  string
		wantErr   bool
	}{
		{"valid", "Hamstar421", "42", "1", false},
		{"valid high digits", "Hamstar999", "99", "9", false},
		{"surrounding whitespace trimmed", " Hamstar421 \n", "42", "1", false},
		{"inner whitespace rejected", "Hamstar 421", "", "", true},
		{"zero digit rejected", "Hamstar402", "", "", true},
		{"too short", "Hamstar42", "", "", true},
		{"too long", "Hamstar4211", "", "", true},
		{"wrong prefix", "hamstar421", "", "", true},
		{"empty", "", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			party, slot, err := ParseAdminCode(tt.code)
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrorInvalidPasswordFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantParty, party)
			assert.Equal(t, tt.wantSlot, slot)
		})
	}
}

func TestIsArchitectCode(t *testing.T) {
	assert.True(t, IsArchitectCode("Dev11"))
	assert.True(t, IsArchitectCode("Dev88"))
	assert.True(t, IsArchitectCode("Dev11\n"))
	assert.False(t, IsArchitectCode("Dev90"))
	assert.False(t, IsArchitectCode("Dev1"))
	assert.False(t, IsArchitectCode("Dev123"))
	assert.False(t, IsArchitectCode("dev11"))
	assert.False(t, IsArchitectCode(""))
}

func TestHashAndCheckSecret(t *testing.T) {
	hash, err := HashSecret("s3cret")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)

	assert.True(t, CheckSecret(hash, "s3cret"))
	assert.False(t, CheckSecret(hash, "wrong"))
	assert.False(t, CheckSecret("", "s3cret"))
}

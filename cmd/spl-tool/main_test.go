package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressFlag(t *testing.T) {
	tests := []struct {
		in      uint
		want    uint16
		wantErr bool
	}{
		{in: 0x48, want: 0x48},
		{in: 0x7F, want: 0x7F},
		{in: 0x80, wantErr: true},
		{in: 0x10049, wantErr: true},
	}

	for _, tt := range tests {
		got, err := addressFlag(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "addressFlag(0x%X)", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestLoadConfigRejectsWideAddress(t *testing.T) {
	require.NoError(t, flag.CommandLine.Set("addr", "0x10049"))

	_, err := loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "7-bit")
}

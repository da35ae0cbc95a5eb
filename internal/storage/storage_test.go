package storage

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/online_catalog/internal/config"
)

func TestDecodeContent(t *testing.T) {
	t.Parallel()

	raw := []byte("\x89PNG fake")
	enc := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name    string
		in      string
		want    []byte
		wantErr bool
	}{
		{name: "raw base64", in: enc, want: raw},
		{name: "unpadded", in: base64.RawStdEncoding.EncodeToString(raw), want: raw},
		{name: "data url", in: "data:image/png;base64," + enc, want: raw},
		{name: "data url without base64", in: "data:image/png," + enc, wantErr: true},
		{name: "garbage", in: "%%%", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := DecodeContent(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocalDisk_PutGetDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	d, err := NewLocalDisk(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, d.Put(ctx, "products/boot.png", []byte("img")))
	got, err := d.Get(ctx, "products/boot.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), got)

	require.NoError(t, d.Delete(ctx, "products/boot.png"))
	require.NoError(t, d.Delete(ctx, "products/boot.png"))

	_, err = d.Get(ctx, "products/boot.png")
	assert.ErrorIs(t, err, ErrNotExist)

	assert.Error(t, d.Put(ctx, "../outside.png", []byte("x")))
}

func TestNew_Drivers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	d, err := New(ctx, config.StorageConfig{Driver: "none"})
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = New(ctx, config.StorageConfig{Driver: "local", LocalRoot: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalDisk{}, d)

	_, err = New(ctx, config.StorageConfig{Driver: "s3"})
	assert.Error(t, err)

	_, err = New(ctx, config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)
}

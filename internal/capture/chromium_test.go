package capture

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsNormalize(t *testing.T) {
	o := Options{URL: "http://127.0.0.1:8080/", OutputPath: "out.png"}
	require.NoError(t, o.normalize())
	assert.Equal(t, DefaultWidth, o.Width)
	assert.Equal(t, DefaultHeight, o.Height)
	assert.Equal(t, 30*time.Second, o.Timeout)

	o = Options{URL: "http://x/", OutputPath: "o.png", Width: 800, Height: 600, Timeout: time.Second}
	require.NoError(t, o.normalize())
	assert.Equal(t, 800, o.Width)
	assert.Equal(t, time.Second, o.Timeout)
}

func TestPagePNGRequiresURLAndOutput(t *testing.T) {
	assert.Error(t, PagePNG(context.Background(), Options{OutputPath: "o.png"}))
	assert.Error(t, PagePNG(context.Background(), Options{URL: "http://x/"}))
}

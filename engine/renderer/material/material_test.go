package material

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMaterialIsWhite(t *testing.T) {
	m := NewMaterial()
	assert.Equal(t, "default", m.Name())
	assert.Equal(t, common.WhiteTexel(), m.Texture())
	require.NotNil(t, m.BindGroupProvider())
	assert.Equal(t, "material:default", m.BindGroupProvider().Label())
}

func TestTextureFallsBackToBaseColor(t *testing.T) {
	m := NewMaterial(WithBaseColor([4]float32{1, 0, 0.5, 1}))
	tex := m.Texture()
	assert.Equal(t, uint32(1), tex.Width)
	assert.Equal(t, uint32(1), tex.Height)
	assert.Equal(t, []byte{255, 0, 128, 255}, tex.Pixels)
}

func TestFromImportedPrefersDecodedPixels(t *testing.T) {
	staging := &common.TextureStagingData{Pixels: make([]byte, 2*2*4), Width: 2, Height: 2}
	m := FromImported(common.ImportedMaterial{
		Name:           "crate",
		DiffuseColor:   [4]float32{0.2, 0.2, 0.2, 1},
		DiffuseTexture: &common.ImportedTexture{Path: "crate.png"},
		Staging:        staging,
	})
	assert.Equal(t, "crate", m.Name())
	assert.Equal(t, "crate.png", m.DiffuseTexture().Path)
	assert.Equal(t, uint32(2), m.Texture().Width)
}

// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
// This is primarily used in the BindGroupProvider to stage texture data before creating the GPU texture and bind group.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// WhiteTexel returns a 1x1 opaque white texture, used for materials without a diffuse map.
func WhiteTexel() TextureStagingData {
	return TextureStagingData{Pixels: []byte{255, 255, 255, 255}, Width: 1, Height: 1}
}

// SolidTexel returns a 1x1 texture of the given linear RGBA color, channels clamped to [0, 1].
func SolidTexel(rgba [4]float32) TextureStagingData {
	px := make([]byte, 4)
	for i, c := range rgba {
		px[i] = byte(min(max(c, 0), 1)*255 + 0.5)
	}
	return TextureStagingData{Pixels: px, Width: 1, Height: 1}
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// Zero fields fall back to linear filtering with repeat addressing.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range.
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// Compare specifies the comparison function for comparison samplers.
	Compare wgpu.CompareFunction
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}

// ImportedMaterial represents material properties from an imported model file.
type ImportedMaterial struct {
	// Name is the material identifier.
	Name string

	// DiffuseColor is the Kd color of the material (RGBA).
	DiffuseColor [4]float32

	// DiffuseTexture references the map_Kd image, or nil when the material has none.
	DiffuseTexture *ImportedTexture

	// Staging holds the decoded diffuse pixels once the loader has decoded them.
	Staging *TextureStagingData
}

// ImportedTexture represents texture data referenced by a model file.
// Either Data holds raw encoded bytes, or Path points at an image on disk.
type ImportedTexture struct {
	// Name is an identifier for this texture (e.g., "diffuse").
	Name string

	// Path is the file path for external textures (empty for in-memory data).
	Path string

	// Data contains raw encoded image bytes.
	Data []byte

	// Width is the texture width in pixels (populated after Decode).
	Width int

	// Height is the texture height in pixels (populated after Decode).
	Height int
}

// Decode decodes the texture to raw RGBA pixel data.
// Uses either Data bytes or loads from Path on disk.
// Supports PNG, JPEG, GIF, BMP, TIFF and WebP.
//
// Returns:
//   - TextureStagingData: the decoded RGBA pixels, ready for Renderer.InitTextureView
//   - error: a KindAssetLoad error if reading or decoding fails
func (t *ImportedTexture) Decode() (TextureStagingData, error) {
	const op = "texture.Decode"
	if t == nil {
		return TextureStagingData{}, Errorf(KindAssetLoad, op, "texture is nil")
	}

	var img image.Image
	var err error

	switch {
	case len(t.Data) > 0:
		img, _, err = image.Decode(bytes.NewReader(t.Data))
		if err != nil {
			return TextureStagingData{}, NewError(KindAssetLoad, op, errors.Wrapf(err, "decode %q", t.Name))
		}
	case t.Path != "":
		file, fileErr := os.Open(t.Path)
		if fileErr != nil {
			return TextureStagingData{}, NewError(KindAssetLoad, op, errors.Wrapf(fileErr, "open %s", t.Path))
		}
		defer file.Close()

		img, _, err = image.Decode(file)
		if err != nil {
			return TextureStagingData{}, NewError(KindAssetLoad, op, errors.Wrapf(err, "decode %s", t.Path))
		}
	default:
		return TextureStagingData{}, Errorf(KindAssetLoad, op, "texture %q has neither data nor path", t.Name)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	t.Width = bounds.Dx()
	t.Height = bounds.Dy()

	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(t.Width),
		Height: uint32(t.Height),
	}, nil
}

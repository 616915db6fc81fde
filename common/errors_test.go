package common

import (
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	base := NewError(KindRecoverableSurface, "renderer.BeginFrame", io.EOF)
	wrapped := errors.Wrap(base, "render")

	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindRecoverableSurface, kind)
	assert.ErrorIs(t, wrapped, io.EOF)

	_, ok = KindOf(io.EOF)
	assert.False(t, ok)
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unclassified", io.EOF, true},
		{"fatal init", Errorf(KindFatalInit, "op", "no adapter"), true},
		{"fatal runtime", Errorf(KindFatalRuntime, "op", "oom"), true},
		{"lost", Errorf(KindRecoverableSurface, "op", "lost"), false},
		{"outdated", Errorf(KindTransientSurface, "op", "outdated"), false},
		{"asset", Errorf(KindAssetLoad, "op", "missing"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFatal(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := Errorf(KindAssetLoad, "loader.LoadOBJ", "missing %s", "cube.obj")
	assert.Equal(t, "loader.LoadOBJ: AssetLoad: missing cube.obj", err.Error())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

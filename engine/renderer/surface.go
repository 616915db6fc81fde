package renderer

import (
	"reflect"
	"strings"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
)

// errSurfaceTextureUnavailable is returned when the surface hands back no texture. The
// wgpu binding drops the acquire status, so a lost, outdated or timed-out surface all
// arrive as this one error.
var errSurfaceTextureUnavailable = errors.New("surface texture unavailable")

// surfaceTextureMissing reports whether tex wraps a null native handle. The handle field is
// unexported, so it is inspected through reflection without being read.
func surfaceTextureMissing(tex *wgpu.Texture) bool {
	if tex == nil {
		return true
	}
	ref := reflect.ValueOf(tex).Elem().FieldByName("ref")
	switch ref.Kind() {
	case reflect.Pointer, reflect.UnsafePointer:
		return ref.IsNil()
	default:
		return false
	}
}

// classifyAcquireError maps a surface acquire failure onto the error taxonomy.
//
// A missing texture and an unconfigured surface are both repaired by reconfiguring. A second
// acquire before present skips the frame. Out-of-memory and device loss are fatal. Anything
// else the validation scope reports is treated as transient.
func classifyAcquireError(err error) *common.Error {
	const op = "renderer.BeginFrame"
	if errors.Is(err, errSurfaceTextureUnavailable) {
		return common.NewError(common.KindRecoverableSurface, op, err)
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "out of memory"), strings.Contains(msg, "outofmemory"),
		strings.Contains(msg, "device lost"), strings.Contains(msg, "devicelost"):
		return common.NewError(common.KindFatalRuntime, op, err)
	case strings.Contains(msg, "not configured"):
		return common.NewError(common.KindRecoverableSurface, op, err)
	case strings.Contains(msg, "already acquired"):
		return common.NewError(common.KindTransientSurface, op, err)
	default:
		return common.NewError(common.KindTransientSurface, op, err)
	}
}

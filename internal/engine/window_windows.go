//go:build windows

package engine

import (
	"syscall"
	"unsafe"

	"WallRig/internal/renderer"

	"github.com/go-gl/glfw/v3.3/glfw"
)

var (
	dwmapi                    = syscall.NewLazyDLL("dwmapi.dll")
	procDwmSetWindowAttribute = dwmapi.NewProc("DwmSetWindowAttribute")
)

const (
	DWMWA_USE_IMMERSIVE_DARK_MODE = 20
	DWMWA_BORDER_COLOR            = 34
	DWMWA_CAPTION_COLOR           = 35
)

// SetDarkTitleBar matches the title bar to the scene clear colour.
func SetDarkTitleBar(window *glfw.Window) {
	hwnd := window.GetWin32Window()
	if hwnd == nil {
		return
	}

	var useDarkMode int32 = 1
	procDwmSetWindowAttribute.Call(
		uintptr(unsafe.Pointer(hwnd)),
		DWMWA_USE_IMMERSIVE_DARK_MODE,
		uintptr(unsafe.Pointer(&useDarkMode)),
		unsafe.Sizeof(useDarkMode),
	)

	c := renderer.ClearColor
	colorBGR := uint32(uint8(c.Z()*255)) | uint32(uint8(c.Y()*255))<<8 | uint32(uint8(c.X()*255))<<16
	for _, attr := range []uintptr{DWMWA_BORDER_COLOR, DWMWA_CAPTION_COLOR} {
		procDwmSetWindowAttribute.Call(
			uintptr(unsafe.Pointer(hwnd)),
			attr,
			uintptr(unsafe.Pointer(&colorBGR)),
			unsafe.Sizeof(colorBGR),
		)
	}
}

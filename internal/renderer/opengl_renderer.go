package renderer

import (
	"fmt"

	"WallRig/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// BoxRenderer draws flat-shaded cuboids on an OpenGL 4.1 core context.
type BoxRenderer struct {
	shader Shader
	vao    uint32
	vbo    uint32

	FrustumCulling bool
	culled         int
}

var _ Render = (*BoxRenderer)(nil)

func NewBoxRenderer() *BoxRenderer {
	return &BoxRenderer{FrustumCulling: true}
}

func (rend *BoxRenderer) Init(width, height int32) error {
	if err := gl.Init(); err != nil {
		logger.Log.Error("OpenGL initialization failed", zap.Error(err))
		return fmt.Errorf("renderer: gl init: %w", err)
	}

	if Debug {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gl.Viewport(0, 0, width, height)

	rend.shader = InitShader()
	if err := rend.shader.Compile(); err != nil {
		return err
	}

	gl.GenVertexArrays(1, &rend.vao)
	gl.BindVertexArray(rend.vao)
	gl.GenBuffers(1, &rend.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, rend.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(cubeVertices)*4, gl.Ptr(cubeVertices), gl.STATIC_DRAW)

	stride := int32(cubeStride * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)

	logger.Log.Info("OpenGL render initialized", zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))))
	return nil
}

func (rend *BoxRenderer) Render(camera *Camera, lights Lights, boxes []Box) {
	gl.ClearColor(ClearColor.X(), ClearColor.Y(), ClearColor.Z(), 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	rend.shader.Use()
	u := rend.shader.Uniforms()
	u.SetMat4("viewProjection", camera.GetViewProjection())
	u.SetVec3("ambientColor", lights.Ambient.Color)
	u.SetFloat("ambientIntensity", lights.Ambient.Intensity)
	u.SetVec3("lightDirection", lights.Directional.Direction())
	u.SetVec3("lightColor", lights.Directional.Color)
	u.SetFloat("lightIntensity", lights.Directional.Intensity)

	var frustum Frustum
	if rend.FrustumCulling {
		frustum = camera.CalculateFrustum()
	}

	rend.culled = 0
	gl.BindVertexArray(rend.vao)
	for _, box := range boxes {
		if rend.FrustumCulling && box.Radius > 0 && !frustum.IntersectsSphere(box.Center(), box.Radius) {
			rend.culled++
			continue
		}
		u.SetMat4("model", box.Model)
		u.SetVec3("diffuseColor", box.Color)
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(cubeVertices)/cubeStride))
	}
	gl.BindVertexArray(0)
}

// Culled reports how many boxes the last Render skipped.
func (rend *BoxRenderer) Culled() int { return rend.culled }

func (rend *BoxRenderer) UpdateViewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}

func (rend *BoxRenderer) Cleanup() {
	gl.DeleteBuffers(1, &rend.vbo)
	gl.DeleteVertexArrays(1, &rend.vao)
	gl.DeleteProgram(rend.shader.program)
}

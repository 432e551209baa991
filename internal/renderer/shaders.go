package renderer

import (
	"fmt"
	"strings"

	"WallRig/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// =============================================================
//
//	Shaders
//
// =============================================================
type Shader struct {
	vertexSource   string
	fragmentSource string
	program        uint32
	uniforms       *UniformCache
}

func (shader *Shader) Use() {
	gl.UseProgram(shader.program)
}

// Compile builds the program and resets its uniform cache.
func (shader *Shader) Compile() error {
	vertex, err := GenShader(shader.vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return err
	}
	fragment, err := GenShader(shader.fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertex)
		return err
	}
	program, err := GenShaderProgram(vertex, fragment)
	if err != nil {
		return err
	}
	shader.program = program
	shader.uniforms = NewUniformCache(program)
	return nil
}

func (shader *Shader) Uniforms() *UniformCache { return shader.uniforms }

var boxVertexShaderSource = `#version 330 core

layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;

uniform mat4 model;
uniform mat4 viewProjection;

out vec3 Normal;

void main() {
    Normal = mat3(transpose(inverse(model))) * inNormal;
    gl_Position = viewProjection * model * vec4(inPosition, 1.0);
}
` + "\x00"

var boxFragmentShaderSource = `#version 330 core
in vec3 Normal;

uniform vec3 diffuseColor;
uniform vec3 ambientColor;
uniform float ambientIntensity;
uniform vec3 lightDirection;
uniform vec3 lightColor;
uniform float lightIntensity;

out vec4 FragColor;

void main() {
    vec3 norm = normalize(Normal);
    float diff = max(dot(norm, -lightDirection), 0.0);

    vec3 ambient = ambientColor * ambientIntensity;
    vec3 diffuse = diff * lightColor * lightIntensity;
    FragColor = vec4((ambient + diffuse) * diffuseColor, 1.0);
}
` + "\x00"

func InitShader() Shader {
	return Shader{
		vertexSource:   boxVertexShaderSource,
		fragmentSource: boxFragmentShaderSource,
	}
}

func GenShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	cSources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		logger.Log.Error("Failed to compile", zap.Uint32("shader type", shaderType), zap.String("log", log))
		return 0, fmt.Errorf("renderer: compile shader type %d: %s", shaderType, log)
	}
	return shader, nil
}

func GenShaderProgram(vertexShader, fragmentShader uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	gl.DetachShader(program, vertexShader)
	gl.DeleteShader(vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		logger.Log.Error("Failed to link program", zap.String("log", log))
		return 0, fmt.Errorf("renderer: link program: %s", log)
	}
	logger.Log.Debug("Shader program linked", zap.Uint32("program", program))
	return program, nil
}

package render

import "fmt"

// MVPUniform is the only uniform the point shader reads.
const MVPUniform = "MVP"

const vertexShaderSource = `#version 330 core
layout(location = 0) in vec3 aPos;
uniform mat4 MVP;
void main() {
    gl_Position = MVP * vec4(aPos, 1.0);
}
`

const fragmentShaderTemplate = `#version 330 core
out vec4 FragColor;
void main() {
    FragColor = vec4(%.6f, %.6f, %.6f, %.6f);
}
`

// DefaultPointColor is the solid color every sample is drawn with.
var DefaultPointColor = Color{R: 0.2, G: 0.5, B: 1.0, A: 1.0}

// VertexShader returns the GLSL source of the MVP vertex stage.
func VertexShader() string { return vertexShaderSource }

// FragmentShader returns GLSL that writes c to every fragment.
func FragmentShader(c Color) string {
	return fmt.Sprintf(fragmentShaderTemplate, c.R, c.G, c.B, c.A)
}

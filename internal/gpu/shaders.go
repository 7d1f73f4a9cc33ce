package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"

	"github.com/gogpu/sdftext/glyph"
)

//go:embed shaders/text_raw.wgsl
var rawShaderSource string

//go:embed shaders/text_sdf.wgsl
var sdfShaderSource string

// ShaderSource returns the WGSL source of the shader drawing mode.
func ShaderSource(mode glyph.Mode) string {
	if mode == glyph.ModeSDF {
		return sdfShaderSource
	}
	return rawShaderSource
}

// CompileShader compiles WGSL source to SPIR-V words.
func CompileShader(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile shader: SPIR-V length %d is not word aligned", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/gradient.wgsl
var gradientShaderSource string

// GradientShaderSource returns the WGSL text of the quad program.
func GradientShaderSource() string {
	return gradientShaderSource
}

// compileSPIRV compiles WGSL source to SPIR-V words.
func compileSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile shader: SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words.
	spirv := make([]uint32, len(spirvBytes)/4)
	for i := range spirv {
		spirv[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirv, nil
}

// createGradientShader compiles the quad program and creates its module.
func createGradientShader(device hal.Device) (hal.ShaderModule, error) {
	spirv, err := compileSPIRV(gradientShaderSource)
	if err != nil {
		return nil, err
	}
	return device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: "gradient_shader",
		Source: hal.ShaderSource{
			SPIRV: spirv,
		},
	})
}

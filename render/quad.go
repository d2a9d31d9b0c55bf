// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"encoding/binary"
	"math"
)

// QuadVertices is the full-screen quad: two triangles covering normalized
// device coordinates [-1, 1]^2, one vec3 position per vertex.
var QuadVertices = [...]float32{
	-1, -1, 0,
	1, -1, 0,
	-1, 1, 0,
	-1, 1, 0,
	1, -1, 0,
	1, 1, 0,
}

// quadVertexCount is the number of vertices in QuadVertices.
const quadVertexCount = uint32(len(QuadVertices) / 3)

// quadVertexStride is the byte stride of one vec3<f32> position.
const quadVertexStride = 12

// quadVertexBytes encodes QuadVertices as little-endian float32.
func quadVertexBytes() []byte {
	buf := make([]byte, len(QuadVertices)*4)
	for i, v := range QuadVertices {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// resolutionUniformSize is the size of the fragment uniform block:
// vec2<f32> resolution padded to 16 bytes.
const resolutionUniformSize = 16

// makeResolutionUniform encodes the resolution uniform block.
func makeResolutionUniform(width, height int) []byte {
	buf := make([]byte, resolutionUniformSize)
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(float32(width)))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(float32(height)))
	return buf
}

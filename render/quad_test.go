// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestQuadCoversNDC(t *testing.T) {
	if quadVertexCount != 6 {
		t.Fatalf("quadVertexCount = %d, want 6", quadVertexCount)
	}
	var minX, minY, maxX, maxY float32 = 1, 1, -1, -1
	for i := 0; i < len(QuadVertices); i += 3 {
		x, y, z := QuadVertices[i], QuadVertices[i+1], QuadVertices[i+2]
		if z != 0 {
			t.Errorf("vertex %d: z = %v, want 0", i/3, z)
		}
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	if minX != -1 || minY != -1 || maxX != 1 || maxY != 1 {
		t.Errorf("quad bounds = [%v,%v]x[%v,%v], want [-1,1]^2", minX, maxX, minY, maxY)
	}
}

func TestQuadVertexBytes(t *testing.T) {
	buf := quadVertexBytes()
	if len(buf) != int(quadVertexCount)*quadVertexStride {
		t.Fatalf("len = %d, want %d", len(buf), int(quadVertexCount)*quadVertexStride)
	}
	for i, want := range QuadVertices {
		got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		if got != want {
			t.Errorf("float %d = %v, want %v", i, got, want)
		}
	}
}

func TestMakeResolutionUniform(t *testing.T) {
	buf := makeResolutionUniform(1024, 512)
	if len(buf) != resolutionUniformSize {
		t.Fatalf("len = %d, want %d", len(buf), resolutionUniformSize)
	}
	w := math.Float32frombits(binary.LittleEndian.Uint32(buf[0:]))
	h := math.Float32frombits(binary.LittleEndian.Uint32(buf[4:]))
	if w != 1024 || h != 512 {
		t.Errorf("resolution = (%v, %v), want (1024, 512)", w, h)
	}
}

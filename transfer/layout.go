// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package transfer

import "fmt"

// CopyPitchAlignment is the row pitch alignment of texture to buffer copies.
// WebGPU (and DX12) requires BytesPerRow to be a multiple of 256.
const CopyPitchAlignment = 256

// bytesPerPixel is the size of one RGBA8 or BGRA8 texel.
const bytesPerPixel = 4

// AlignedBytesPerRow returns the padded row pitch for a row of width texels.
func AlignedBytesPerRow(width int) int {
	bytesPerRow := width * bytesPerPixel
	return (bytesPerRow + CopyPitchAlignment - 1) &^ (CopyPitchAlignment - 1)
}

// StagingSize returns the size of a staging buffer holding a padded
// width x height frame.
func StagingSize(width, height int) int {
	return AlignedBytesPerRow(width) * height
}

// StripPadding copies the tightly packed rows of a padded staging image
// into dst. src must hold height rows of AlignedBytesPerRow(width) bytes and
// dst exactly width*height*4 bytes.
func StripPadding(dst, src []byte, width, height int) error {
	bytesPerRow := width * bytesPerPixel
	aligned := AlignedBytesPerRow(width)
	if len(dst) != bytesPerRow*height {
		return fmt.Errorf("transfer: destination is %d bytes, want %d", len(dst), bytesPerRow*height)
	}
	if len(src) < aligned*height {
		return fmt.Errorf("transfer: staging data is %d bytes, want %d", len(src), aligned*height)
	}

	if aligned == bytesPerRow {
		// No padding, fast path.
		copy(dst, src[:len(dst)])
		return nil
	}
	for row := 0; row < height; row++ {
		srcOff := row * aligned
		dstOff := row * bytesPerRow
		copy(dst[dstOff:dstOff+bytesPerRow], src[srcOff:srcOff+bytesPerRow])
	}
	return nil
}

// SwizzleBGRA swaps the R and B channels of every pixel in place, turning
// BGRA8 data into RGBA8 and back.
func SwizzleBGRA(pix []byte) {
	for i := 0; i+3 < len(pix); i += bytesPerPixel {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}

// Package pack implements the 10-bit <-> packed-40-bit-per-4-pixel codec
// used to store cropped/extracted 10-bit planes compactly (§4.1).
//
// Canonical storage: four little-endian 16-bit samples (low 10 bits used)
// pack into five bytes encoding a 40-bit little-endian integer
// p0 | p1<<10 | p2<<20 | p3<<30. Unpack recovers the four samples by
// masking & 0x3FF at shifts 0, 10, 20, 30.
package pack

import "encoding/binary"

const (
	// GroupPixels is the number of 10-bit samples packed into one group.
	GroupPixels = 4
	// GroupBytesUnpacked is the raw byte length of one group before packing
	// (4 samples x 2 bytes each).
	GroupBytesUnpacked = 8
	// GroupBytesPacked is the packed byte length of one group.
	GroupBytesPacked = 5

	sampleMask = 0x3FF
)

// packGroup packs one group of 4 little-endian 16-bit samples (8 bytes) from
// src into 5 bytes at dst.
func packGroup(dst, src []byte) {
	p0 := uint64(binary.LittleEndian.Uint16(src[0:2])) & sampleMask
	p1 := uint64(binary.LittleEndian.Uint16(src[2:4])) & sampleMask
	p2 := uint64(binary.LittleEndian.Uint16(src[4:6])) & sampleMask
	p3 := uint64(binary.LittleEndian.Uint16(src[6:8])) & sampleMask

	word := p0 | p1<<10 | p2<<20 | p3<<30

	dst[0] = byte(word)
	dst[1] = byte(word >> 8)
	dst[2] = byte(word >> 16)
	dst[3] = byte(word >> 24)
	dst[4] = byte(word >> 32)
}

// unpackGroup unpacks 5 bytes at src into one group of 4 little-endian
// 16-bit samples (8 bytes) at dst.
func unpackGroup(dst, src []byte) {
	word := uint64(src[0]) | uint64(src[1])<<8 | uint64(src[2])<<16 |
		uint64(src[3])<<24 | uint64(src[4])<<32

	p0 := uint16(word & sampleMask)
	p1 := uint16((word >> 10) & sampleMask)
	p2 := uint16((word >> 20) & sampleMask)
	p3 := uint16((word >> 30) & sampleMask)

	binary.LittleEndian.PutUint16(dst[0:2], p0)
	binary.LittleEndian.PutUint16(dst[2:4], p1)
	binary.LittleEndian.PutUint16(dst[4:6], p2)
	binary.LittleEndian.PutUint16(dst[6:8], p3)
}

// Pack packs src (a sequence of little-endian 16-bit samples whose length
// must be a multiple of GroupBytesUnpacked) into dst, returning the number
// of bytes written (len(src)/8*5). dst must have at least that capacity.
func Pack(dst, src []byte) int {
	if len(src)%GroupBytesUnpacked != 0 {
		panic("pack: src length must be a multiple of 8")
	}
	groups := len(src) / GroupBytesUnpacked
	for g := 0; g < groups; g++ {
		packGroup(dst[g*GroupBytesPacked:], src[g*GroupBytesUnpacked:])
	}
	return groups * GroupBytesPacked
}

// Unpack unpacks src (length must be a multiple of GroupBytesPacked) into
// dst, returning the number of bytes written (len(src)/5*8).
func Unpack(dst, src []byte) int {
	if len(src)%GroupBytesPacked != 0 {
		panic("unpack: src length must be a multiple of 5")
	}
	groups := len(src) / GroupBytesPacked
	for g := 0; g < groups; g++ {
		unpackGroup(dst[g*GroupBytesUnpacked:], src[g*GroupBytesPacked:])
	}
	return groups * GroupBytesUnpacked
}

// PackedRowSize returns the packed byte length of one plane row of w
// 10-bit samples: ceil(w*2*5/8) rounded up to a multiple of 5 (§4.1).
// It is constant for a given w, so every row of a packed plane has the
// same length and the plane stays rectangular even when w is not a
// multiple of 4.
func PackedRowSize(w int) int {
	rawBytes := w * 2
	size := (rawBytes*GroupBytesPacked + GroupBytesUnpacked - 1) / GroupBytesUnpacked
	return ((size + GroupBytesPacked - 1) / GroupBytesPacked) * GroupBytesPacked
}

// PackRow packs one row of w 10-bit samples (w*2 raw bytes at src) into dst,
// padding a trailing partial group with zeros when w*2 is not a multiple of
// GroupBytesUnpacked (the "remainder" variant, §4.1). Returns the number of
// bytes written, which always equals PackedRowSize(w).
func PackRow(dst, src []byte, w int) int {
	rawBytes := w * 2
	fullGroups := rawBytes / GroupBytesUnpacked
	for g := 0; g < fullGroups; g++ {
		packGroup(dst[g*GroupBytesPacked:], src[g*GroupBytesUnpacked:])
	}

	rem := rawBytes % GroupBytesUnpacked
	if rem > 0 {
		var scratch [GroupBytesUnpacked]byte
		copy(scratch[:], src[fullGroups*GroupBytesUnpacked:rawBytes])
		packGroup(dst[fullGroups*GroupBytesPacked:], scratch[:])
	}

	return PackedRowSize(w)
}

// UnpackRow unpacks one packed row (PackedRowSize(w) bytes at src) back into
// w*2 raw little-endian 16-bit samples at dst, discarding the zero padding
// used by the remainder group if w*2 was not a multiple of 8.
func UnpackRow(dst, src []byte, w int) {
	rawBytes := w * 2
	fullGroups := rawBytes / GroupBytesUnpacked
	for g := 0; g < fullGroups; g++ {
		unpackGroup(dst[g*GroupBytesUnpacked:], src[g*GroupBytesPacked:])
	}

	rem := rawBytes % GroupBytesUnpacked
	if rem > 0 {
		var scratch [GroupBytesUnpacked]byte
		unpackGroup(scratch[:], src[fullGroups*GroupBytesPacked:])
		copy(dst[fullGroups*GroupBytesUnpacked:rawBytes], scratch[:rem])
	}
}

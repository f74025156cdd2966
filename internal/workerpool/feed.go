package workerpool

import (
	"encoding/binary"
	"io"

	"github.com/five82/reav1/internal/pack"
	"github.com/five82/reav1/internal/strategy"
)

// writeFrames streams frame_count frames of frameSize bytes each from buf to
// w, converting each sample to 16-bit little-endian 10-bit-in-16 form: the
// encoder always consumes 10-bit input regardless of source bit depth
// (§4.8). 8-bit source samples are widened with v<<2; samples already
// stored in the packed 10-bit codec are unpacked with pack.UnpackRow.
func writeFrames(w io.Writer, buf []byte, frameCount int, frameSize int, width, height uint32, sel strategy.Selection) error {
	if sel.Strategy.Is10Bit() {
		return write10BitFrames(w, buf, frameCount, frameSize, width, height)
	}
	return write8BitFrames(w, buf, frameCount, frameSize, width, height)
}

func write8BitFrames(w io.Writer, buf []byte, frameCount int, frameSize int, width, height uint32) error {
	uvW, uvH := (width+1)/2, (height+1)/2
	ySize := int(width) * int(height)
	uvSize := int(uvW) * int(uvH)

	widened := make([]byte, 0, ySize*2)

	for f := 0; f < frameCount; f++ {
		frame := buf[f*frameSize : (f+1)*frameSize]
		if err := widenPlaneTo16(w, frame[0:ySize], &widened); err != nil {
			return err
		}
		if err := widenPlaneTo16(w, frame[ySize:ySize+uvSize], &widened); err != nil {
			return err
		}
		if err := widenPlaneTo16(w, frame[ySize+uvSize:ySize+2*uvSize], &widened); err != nil {
			return err
		}
	}
	return nil
}

func widenPlaneTo16(w io.Writer, plane []byte, scratch *[]byte) error {
	out := (*scratch)[:0]
	if cap(out) < len(plane)*2 {
		out = make([]byte, 0, len(plane)*2)
	}
	var sample [2]byte
	for _, v := range plane {
		binary.LittleEndian.PutUint16(sample[:], uint16(v)<<2)
		out = append(out, sample[0], sample[1])
	}
	*scratch = out
	_, err := w.Write(out)
	return err
}

func write10BitFrames(w io.Writer, buf []byte, frameCount int, frameSize int, width, height uint32) error {
	uvW, uvH := (width+1)/2, (height+1)/2
	yRowSize := pack.PackedRowSize(int(width))
	uvRowSize := pack.PackedRowSize(int(uvW))

	ySize := yRowSize * int(height)
	uvSize := uvRowSize * int(uvH)

	rawRow := make([]byte, int(width)*2)
	rawUVRow := make([]byte, int(uvW)*2)

	for f := 0; f < frameCount; f++ {
		frame := buf[f*frameSize : (f+1)*frameSize]
		yPlane := frame[0:ySize]
		uPlane := frame[ySize : ySize+uvSize]
		vPlane := frame[ySize+uvSize : ySize+2*uvSize]

		if err := unpackPlane(w, yPlane, int(height), yRowSize, rawRow); err != nil {
			return err
		}
		if err := unpackPlane(w, uPlane, int(uvH), uvRowSize, rawUVRow); err != nil {
			return err
		}
		if err := unpackPlane(w, vPlane, int(uvH), uvRowSize, rawUVRow); err != nil {
			return err
		}
	}
	return nil
}

func unpackPlane(w io.Writer, plane []byte, rows, rowSize int, scratch []byte) error {
	width := len(scratch) / 2
	for r := 0; r < rows; r++ {
		row := plane[r*rowSize : (r+1)*rowSize]
		pack.UnpackRow(scratch, row, width)
		if _, err := w.Write(scratch); err != nil {
			return err
		}
	}
	return nil
}

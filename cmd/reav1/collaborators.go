package main

import (
	"context"

	"github.com/five82/reav1/internal/errors"
	"github.com/five82/reav1/internal/source"
)

// unwiredIndex and unwiredEncoderBuilder stand in for the source demuxer
// and the external AV1 encoder: named collaborator contracts that this
// repository treats as external, per §1/§4.10. A production deployment
// supplies real implementations (e.g. an ffms2-backed Index/Decoder and an
// SvtAv1EncApp-backed EncoderCommandBuilder); wiring them in is outside
// this pipeline's scope, so these stand-ins fail fast with a clear error
// instead of silently no-opping.
type unwiredIndex struct{ path string }

func (u unwiredIndex) Info() (source.VideoInfo, error) {
	return source.VideoInfo{}, errors.NewDecoderOpenError(
		"no concrete source.Index wired for "+u.path+
			" (plug in an ffms2 or equivalent demuxer binding)", nil)
}

func (u unwiredIndex) Close() error { return nil }

type unwiredDecoder struct{ path string }

func (u unwiredDecoder) GetFrame(frameIdx int) (source.Frame, error) {
	return source.Frame{}, errors.NewFrameFetchError(frameIdx,
		errors.NewDecoderOpenError("no concrete source.Decoder wired for "+u.path, nil))
}

func (u unwiredDecoder) Close() error { return nil }

type unwiredEncoderBuilder struct{}

func (unwiredEncoderBuilder) BuildCommand(info source.VideoInfo, params source.EncoderParams, width, height uint32) (source.Command, error) {
	return nil, errors.NewEncoderSpawnError(-1,
		errors.NewConfigError("no concrete source.EncoderCommandBuilder wired (plug in an SvtAv1EncApp or equivalent invocation)"))
}

// openSource is the single seam a production build replaces to supply a
// real Index/Decoder pair for path.
func openSource(ctx context.Context, path string) (source.Index, error) {
	return unwiredIndex{path: path}, nil
}

func openDecoder(ctx context.Context, idx source.Index, path string) (source.Decoder, error) {
	return unwiredDecoder{path: path}, nil
}

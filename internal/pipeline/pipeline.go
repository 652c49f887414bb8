// Package pipeline is the Pipeline configuration object of spec.md §9: it
// owns the schema, channel store, and live-value view explicitly, replacing
// the module-level globals of the source with one object a caller
// constructs and threads through.
package pipeline

import (
	"bytes"
	"fmt"

	"github.com/gopher-motorsports/gopher-vision/internal/channel"
	"github.com/gopher-motorsports/gopher-vision/internal/decode"
	"github.com/gopher-motorsports/gopher-vision/internal/frame"
	"github.com/gopher-motorsports/gopher-vision/internal/ldformat"
	"github.com/gopher-motorsports/gopher-vision/internal/logging"
	"github.com/gopher-motorsports/gopher-vision/internal/metrics"
	"github.com/gopher-motorsports/gopher-vision/internal/resample"
	"github.com/gopher-motorsports/gopher-vision/internal/scale"
	"github.com/gopher-motorsports/gopher-vision/internal/schema"
)

// Pipeline owns everything one ingest/conversion session needs: the fixed
// schema, the mutable channel store accumulating samples, and a decoder
// wired to both. One Pipeline corresponds to one session's worth of data;
// it is not reused across sessions.
type Pipeline struct {
	Schema  *schema.Schema
	Store   *channel.Store
	decoder *frame.Decoder

	// OnSample, if set, is called after every sample is appended to the
	// store — the message-passing hook of spec.md §9 that a live-value
	// consumer (internal/live) attaches to, instead of polling the store.
	OnSample func(id uint16, t uint32, v float64)
}

// New builds a Pipeline from a schema. The channel store starts empty.
func New(sch *schema.Schema) *Pipeline {
	return &Pipeline{
		Schema:  sch,
		Store:   channel.New(),
		decoder: &frame.Decoder{},
	}
}

// Feed runs raw bytes through framing and decoding, appending every
// successfully decoded sample to the channel store. It is safe to call
// repeatedly across chunk boundaries (internal/frame.Decoder tolerates
// arbitrary splits).
func (p *Pipeline) Feed(chunk []byte) {
	metrics.AddBytesIngested(len(chunk))
	buf := bytes.NewBuffer(chunk)
	p.decoder.DecodeStream(buf, func(body []byte) {
		sm, err := decode.Decode(body, p.Schema)
		if err != nil {
			return
		}
		p.Store.Append(p.Schema, sm)
		if p.OnSample != nil {
			p.OnSample(sm.ID, sm.T, sm.V)
		}
	})
}

// Flush finalizes any buffered-but-undelimited packet at end of stream.
func (p *Pipeline) Flush() {
	p.decoder.Flush(func(body []byte) {
		sm, err := decode.Decode(body, p.Schema)
		if err != nil {
			return
		}
		p.Store.Append(p.Schema, sm)
		if p.OnSample != nil {
			p.OnSample(sm.ID, sm.T, sm.V)
		}
	})
}

// ConvertResult summarizes an offline conversion run.
type ConvertResult struct {
	ChannelsWritten int
	ChannelsDropped int
}

// Convert finalizes the channel store, resamples and scale-encodes every
// surviving channel, and writes them out as an LD file via writeLD. Channels the
// scale solver cannot represent are dropped and counted, per spec.md
// §4.F/§7 EncodingFail.
func Convert(p *Pipeline, sess ldformat.Session, writeLD func([]ldformat.Channel) error) (ConvertResult, error) {
	finalized := p.Store.Finalize()

	var out []ldformat.Channel
	var dropped int
	for _, ch := range finalized {
		resample.Resample(ch)
		res, ok := scale.Solve(ch.VMin, ch.VMax, ch.VUniform)
		if !ok {
			logging.L().Warn("channel_encoding_failed", "id", ch.Param.ID, "name", ch.Param.Name)
			metrics.IncChannelDropped()
			dropped++
			continue
		}
		ch.VEnc = res.VEnc
		ch.Shift = res.Shift
		ch.Scalar = res.Scalar
		ch.Divisor = res.Divisor

		out = append(out, ldformat.Channel{
			Name:       ch.Param.Name,
			ShortName:  shortName(ch.Param.Name),
			Unit:       ch.Param.Unit,
			SampleRate: ch.FreqHz,
			Offset:     ch.Offset,
			Scalar:     int16(ch.Scalar),
			Divisor:    int16(ch.Divisor),
			Shift:      int16(ch.Shift),
			Samples:    ch.VEnc,
		})
	}

	if len(out) == 0 && len(finalized) > 0 {
		return ConvertResult{ChannelsDropped: dropped}, fmt.Errorf("pipeline: all %d channels failed encoding", len(finalized))
	}

	if err := writeLD(out); err != nil {
		return ConvertResult{ChannelsDropped: dropped}, err
	}

	metrics.SetChannelsWritten(len(out))
	return ConvertResult{ChannelsWritten: len(out), ChannelsDropped: dropped}, nil
}

func shortName(name string) string {
	if len(name) <= 8 {
		return name
	}
	return name[:8]
}

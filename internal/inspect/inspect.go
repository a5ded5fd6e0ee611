// Package inspect walks a captured packet-line stream segment by segment and
// describes what it finds.
package inspect

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"gitwire/pkg/payloadtype"
	"gitwire/pkg/pktline"
	"gitwire/pkg/sideband"
	"gitwire/pkg/transport"
)

type Options struct {
	Protocol       transport.Protocol
	SideBand       bool
	FailOnErrLines bool
	Digest         bool

	// Progress receives side-band text. Nil drops it.
	Progress transport.ProgressHandler
	Logger   *slog.Logger
}

// Segment describes the lines between two stop markers.
type Segment struct {
	Index   int
	Lines   int
	Bytes   int
	Type    payloadtype.PayloadType
	Stop    transport.MessageKind
	Stopped bool
	Digest  uint64
}

// Run reads in until the stream ends or a response-end line arrives, writing
// one line per packet line and one per stop to out.
func Run(in io.Reader, out io.Writer, opts Options) ([]Segment, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dec := pktline.NewDecoder(in, pktline.WithFailOnErrLines(opts.FailOnErrLines))
	sb := sideband.NewReader(dec, sideband.WithSideBand(opts.SideBand), sideband.WithLogger(logger))
	r := transport.WithLogging(transport.NewReader(sb), logger)
	r.SetProgressHandler(opts.Progress)
	r.Reset(opts.Protocol)

	// side-band payload is printed without its band byte, markers included
	next := r.ReadLine
	if opts.SideBand {
		next = sb.NextLine
	}

	var segments []Segment
	for index := 1; ; index++ {
		seg, end, err := readSegment(r, next, out, index, opts)
		if err != nil {
			return segments, fmt.Errorf("segment %d: %w", index, err)
		}
		if seg.Lines > 0 || seg.Stopped {
			segments = append(segments, seg)
		}
		if end {
			return segments, nil
		}
		r.Reset(opts.Protocol)
	}
}

// readSegment reads up to the next stop. end is true when nothing follows.
func readSegment(r transport.ExtendedReader, next func() (pktline.Line, error), out io.Writer, index int, opts Options) (seg Segment, end bool, err error) {
	seg.Index = index
	detector := payloadtype.NewDetector()
	digest := xxhash.New()

	for {
		line, err := next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return seg, true, err
		}

		if line.IsMarker() {
			fmt.Fprintf(out, "%4d  (%s)\n", index, line.Kind)
			if line.Kind == pktline.KindResponseEnd {
				seg.Stop, seg.Stopped = transport.ResponseEnd, true
				finish(out, &seg, detector, digest, opts)
				return seg, true, nil
			}
			continue
		}

		seg.Lines++
		seg.Bytes += len(line.Data)
		if !detector.IsDetected() {
			detector.AnalyzeLine(line.Data)
		}
		_, _ = digest.Write(line.Data)
		fmt.Fprintf(out, "%4d  %s\n", index, describe(line.Data))
	}

	seg.Stop, seg.Stopped = r.StoppedAt()
	if !seg.Stopped {
		if seg.Lines > 0 {
			finish(out, &seg, detector, digest, opts)
		}
		return seg, true, nil
	}
	finish(out, &seg, detector, digest, opts)
	return seg, seg.Stop == transport.ResponseEnd, nil
}

func finish(out io.Writer, seg *Segment, detector *payloadtype.Detector, digest *xxhash.Digest, opts Options) {
	detector.Finish()
	seg.Type, _ = detector.GetDetectedType()
	seg.Digest = digest.Sum64()

	stop := "end of stream"
	if seg.Stopped {
		stop = seg.Stop.String()
	}
	summary := fmt.Sprintf("%4d  -- %s: %d lines, %d bytes, %s", seg.Index, stop, seg.Lines, seg.Bytes, seg.Type)
	if opts.Digest {
		summary += fmt.Sprintf(", xxhash %016x", seg.Digest)
	}
	fmt.Fprintln(out, summary)
}

func describe(data []byte) string {
	switch t := payloadtype.Classify(data); t {
	case payloadtype.PayloadTypeText:
		return strconv.Quote(string(data))
	default:
		return fmt.Sprintf("<%s, %d bytes>", t, len(data))
	}
}

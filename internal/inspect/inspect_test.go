package inspect

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/require"

	"gitwire/pkg/payloadtype"
	"gitwire/pkg/pktline"
	"gitwire/pkg/transport"
)

func pkt(s string) string {
	return fmt.Sprintf("%04x%s", len(s)+pktline.PrefixLen, s)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_V2Segments(t *testing.T) {
	input := pkt("version 2\n") + pkt("fetch=shallow\n") + "0000" +
		pkt("command=ls-refs\n") + "0001" + pkt("peel\n") + "0000"
	var out bytes.Buffer

	segments, err := Run(strings.NewReader(input), &out, Options{Protocol: transport.V2, Logger: quietLogger()})
	require.NoError(t, err)

	require.Len(t, segments, 3)
	require.Equal(t, 2, segments[0].Lines)
	require.Equal(t, transport.Flush, segments[0].Stop)
	require.Equal(t, transport.Delimiter, segments[1].Stop)
	require.Equal(t, transport.Flush, segments[2].Stop)
	require.Equal(t, payloadtype.PayloadTypeText, segments[2].Type)

	require.Contains(t, out.String(), `   1  "version 2\n"`)
	require.Contains(t, out.String(), "   2  -- delimiter: 1 lines, 16 bytes, text")
}

func TestRun_V1ShowsDelimiterAsLine(t *testing.T) {
	input := pkt("a\n") + "0001" + pkt("b\n") + "0000"
	var out bytes.Buffer

	segments, err := Run(strings.NewReader(input), &out, Options{Protocol: transport.V1, Logger: quietLogger()})
	require.NoError(t, err)

	require.Len(t, segments, 1)
	require.Equal(t, 2, segments[0].Lines)
	require.Contains(t, out.String(), "   1  (delimiter)\n")
}

func TestRun_ResponseEndEndsExchange(t *testing.T) {
	input := pkt("x\n") + "0002" + pkt("ignored\n")
	var out bytes.Buffer

	segments, err := Run(strings.NewReader(input), &out, Options{Protocol: transport.V2, Logger: quietLogger()})
	require.NoError(t, err)

	require.Len(t, segments, 1)
	require.Equal(t, transport.ResponseEnd, segments[0].Stop)
	require.NotContains(t, out.String(), "ignored")
}

func TestRun_SideBandResponseEndEndsExchange(t *testing.T) {
	input := pkt("\x01x\n") + "0002" + pkt("\x01ignored\n")
	var out bytes.Buffer

	segments, err := Run(strings.NewReader(input), &out, Options{Protocol: transport.V2, SideBand: true, Logger: quietLogger()})
	require.NoError(t, err)

	require.Len(t, segments, 1)
	require.True(t, segments[0].Stopped)
	require.Equal(t, transport.ResponseEnd, segments[0].Stop)
	require.Equal(t, 1, segments[0].Lines)
	require.Contains(t, out.String(), "   1  (response-end)\n")
	require.NotContains(t, out.String(), "ignored")
}

func TestRun_SideBandV1ShowsDelimiterAsLine(t *testing.T) {
	input := pkt("\x01a\n") + "0001" + pkt("\x01b\n") + "0000"
	var out bytes.Buffer

	segments, err := Run(strings.NewReader(input), &out, Options{Protocol: transport.V1, SideBand: true, Logger: quietLogger()})
	require.NoError(t, err)

	require.Len(t, segments, 1)
	require.Equal(t, 2, segments[0].Lines)
	require.Equal(t, 4, segments[0].Bytes)
	require.Contains(t, out.String(), "   1  \"a\\n\"\n")
	require.Contains(t, out.String(), "   1  (delimiter)\n")
}

func TestRun_SideBand(t *testing.T) {
	pack := "PACK\x00\x00\x00\x02\x00\x00\x00\x01"
	input := pkt("\x02Enumerating objects: 1, done.\n") + pkt("\x01"+pack) + pkt("\x03warning\n") + "0000"
	var out bytes.Buffer
	var progress []string

	segments, err := Run(strings.NewReader(input), &out, Options{
		Protocol: transport.V2,
		SideBand: true,
		Digest:   true,
		Logger:   quietLogger(),
		Progress: func(isError bool, text []byte) {
			progress = append(progress, fmt.Sprintf("%t:%s", isError, text))
		},
	})
	require.NoError(t, err)

	require.Equal(t, []string{"false:Enumerating objects: 1, done.\n", "true:warning\n"}, progress)
	require.Len(t, segments, 1)
	require.Equal(t, payloadtype.PayloadTypePack, segments[0].Type)
	require.Equal(t, xxhash.Sum64String(pack), segments[0].Digest)
	require.Contains(t, out.String(), "<pack, 12 bytes>")
	require.Contains(t, out.String(), fmt.Sprintf("xxhash %016x", xxhash.Sum64String(pack)))
}

func TestRun_NaturalEOF(t *testing.T) {
	var out bytes.Buffer

	segments, err := Run(strings.NewReader(pkt("tail\n")), &out, Options{Protocol: transport.V1, Logger: quietLogger()})
	require.NoError(t, err)

	require.Len(t, segments, 1)
	require.False(t, segments[0].Stopped)
	require.Contains(t, out.String(), "-- end of stream: 1 lines")
}

func TestRun_Errors(t *testing.T) {
	t.Run("framing", func(t *testing.T) {
		_, err := Run(strings.NewReader(pkt("ok\n")+"0000"+"zzzz"), io.Discard, Options{Protocol: transport.V1, Logger: quietLogger()})
		require.ErrorIs(t, err, pktline.ErrInvalidHex)
		require.Contains(t, err.Error(), "segment 2")
	})

	t.Run("err line", func(t *testing.T) {
		_, err := Run(strings.NewReader(pkt("ERR no such repo\n")), io.Discard, Options{
			Protocol:       transport.V1,
			FailOnErrLines: true,
			Logger:         quietLogger(),
		})
		var remoteErr *pktline.RemoteError
		require.ErrorAs(t, err, &remoteErr)
		require.Equal(t, "no such repo", remoteErr.Message)
	})
}

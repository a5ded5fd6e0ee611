// Package pktline decodes packet lines, the framing of the smart transfer
// protocol.
//
// # Format
//
// Every line starts with four hexadecimal digits giving the total length of
// the line, the four digits included:
//
//	000bhello\n
//
//   - length: 4 hex digits, upper or lower case
//   - payload: length-4 bytes, may be binary
//
// Three lengths are reserved for markers that carry no payload:
//
//	0000  flush, ends a command or response segment
//	0001  delimiter, separates sections within a protocol v2 segment
//	0002  response-end, ends a whole exchange (stateless transports)
//
// A length of 0004 would be an empty data line; senders never produce one and
// the decoder rejects it. The longest line is 65520 bytes.
//
// # Errors
//
// Malformed prefixes produce a *DecodeError. Failures of the underlying
// reader, including a line cut short by EOF, are returned wrapped but
// otherwise unchanged. A clean EOF between lines is io.EOF.
//
// When built with WithFailOnErrLines, data lines starting with "ERR " are
// turned into a *RemoteError.
package pktline

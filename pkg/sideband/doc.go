// Package sideband demultiplexes payload from progress and error text carried
// in the same packet-line stream.
//
// # Overview
//
// Goals:
//
//  1. Hand only primary payload to the reader of the stream
//  2. Route progress and error text to a callback, in stream order
//  3. Let the caller look at the next payload line without consuming it
//  4. Stop at configurable markers and remember which one ended the segment
//
// # Bands
//
// Once side-band mode is negotiated, the first byte of every data line names
// its band:
//
//	1  payload, usually pack data
//	2  progress text, meant for a human
//	3  error text, the remote is about to give up
//
// Any other leading byte is a *TagError. Without side-band mode every data
// line is payload.
//
// # Example
//
// The stream
//
//	0011\x02Counting: 1\r
//	0009\x01PACK
//	0010\x03fatal: boom
//	0009\x01DATA
//	0000
//
// calls the handler with (false, "Counting: 1\r") and then (true, "fatal: boom"),
// yields the payload lines "PACK" and "DATA", and stops at the flush.
//
// # Stops
//
// Markers in the stop set end the segment: reads return io.EOF and StoppedAt
// reports the marker until ResetWith installs the next stop set. Markers not in
// the set are handed to ReadLine and NextLine callers as ordinary lines and
// skipped by ReadDataLine, PeekDataLine and Read.
//
// # Progress handlers
//
// The handler runs synchronously inside the decode path. It must not block;
// work that may block belongs on a goroutine the handler hands off to.
package sideband

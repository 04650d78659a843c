// Package capturelog records what a serial listener received, line by line,
// so that a session can be inspected or replayed later.
//
// # Format
//
// Each record is one entry:
//
//	stream timestamp length: content\n
//
// # Fields
//
//   - stream: "rx" for a received line, "timeout" for a bounded read that
//     returned no data. Matches [a-z]{1,16}.
//   - timestamp: UTC timestamp: 2006-01-02T15:04:05.000000000Z
//   - length: byte length of content
//   - `: ` literal separator
//   - content: exactly length bytes. Content never carries the line
//     terminator of the serial stream; the trailing \n is the record separator.
//
// # Example
//
//	rx 2025-06-13T14:25:29.120000000Z 22: --- RLE DUMP BEGIN ---
//	rx 2025-06-13T14:25:29.180000000Z 10: W12B8000W4
//	rx 2025-06-13T14:25:29.190000000Z 20: --- RLE DUMP END ---
//	timeout 2025-06-13T14:25:31.190000000Z 0:
//
// Timeout records keep the replayed session faithful: a grid dump cut short
// by a timeout ends at the same row when replayed.
package capturelog

package rpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

const (
	// FrameDelimiter separates the decimal length prefix from the JSON body.
	FrameDelimiter = '#'

	// maxFrameSize is the largest body accepted in a single frame (1 MB).
	maxFrameSize = 1 << 20

	// maxLengthDigits bounds the length prefix so a garbage stream fails fast.
	maxLengthDigits = 8
)

// ErrMalformedFrame is returned when the length prefix cannot be parsed.
var ErrMalformedFrame = errors.New("rpc: malformed frame")

// ErrFrameTooLarge is returned when a frame announces a body above maxFrameSize.
var ErrFrameTooLarge = errors.New("rpc: frame exceeds max size")

// Packet is the wire envelope for both requests and replies.
type Packet struct {
	ID         string          `json:"id,omitempty"`
	Pattern    json.RawMessage `json:"pattern,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	Token      string          `json:"token,omitempty"`
	Response   json.RawMessage `json:"response,omitempty"`
	Err        json.RawMessage `json:"err,omitempty"`
	IsDisposed bool            `json:"isDisposed,omitempty"`
}

// PatternName returns the pattern as a plain string. String patterns are
// unquoted; object patterns are returned as compact JSON.
func (p *Packet) PatternName() string {
	if len(p.Pattern) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(p.Pattern, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, p.Pattern); err != nil {
		return string(p.Pattern)
	}
	return buf.String()
}

// FrameMessage prefixes a JSON body with its length and the delimiter:
//
//	<len>#<body>
//
// Node peers count the prefix in UTF-16 code units, so non-ASCII runes are
// first rewritten as \uXXXX escapes. The framed body is then pure ASCII and
// its byte length equals its string length on both sides.
func FrameMessage(body []byte) []byte {
	body = escapeNonASCII(body)
	prefix := strconv.Itoa(len(body))
	frame := make([]byte, 0, len(prefix)+1+len(body))
	frame = append(frame, prefix...)
	frame = append(frame, FrameDelimiter)
	frame = append(frame, body...)
	return frame
}

// UnframeMessage extracts the first complete frame from data. The announced
// length is in UTF-16 code units, so raw UTF-8 bodies from Node peers are
// consumed rune by rune. It returns the body, the remaining bytes and whether a
// complete frame was found. A non-nil error means the stream is corrupt and the
// connection should be dropped.
func UnframeMessage(data []byte) (body []byte, rest []byte, found bool, err error) {
	idx := bytes.IndexByte(data, FrameDelimiter)
	if idx == -1 {
		if len(data) > maxLengthDigits {
			return nil, data, false, ErrMalformedFrame
		}
		return nil, data, false, nil
	}
	if idx == 0 || idx > maxLengthDigits {
		return nil, data, false, ErrMalformedFrame
	}

	n, convErr := strconv.Atoi(string(data[:idx]))
	if convErr != nil || n < 0 {
		return nil, data, false, fmt.Errorf("%w: length %q", ErrMalformedFrame, data[:idx])
	}
	if n > maxFrameSize {
		return nil, data, false, ErrFrameTooLarge
	}

	start := idx + 1
	size, complete, err := utf16Span(data[start:], n)
	if err != nil {
		return nil, data, false, err
	}
	if !complete {
		return nil, data, false, nil
	}
	return data[start : start+size], data[start+size:], true, nil
}

// utf16Span returns how many bytes of data hold the first units UTF-16 code
// units. complete is false when data ends first, including inside a rune.
func utf16Span(data []byte, units int) (size int, complete bool, err error) {
	count := 0
	for count < units {
		if size >= len(data) {
			return 0, false, nil
		}
		if data[size] < utf8.RuneSelf {
			size++
			count++
			continue
		}
		if !utf8.FullRune(data[size:]) {
			return 0, false, nil
		}
		r, width := utf8.DecodeRune(data[size:])
		w := utf16.RuneLen(r)
		if w < 1 {
			w = 1
		}
		if count+w > units {
			return 0, false, fmt.Errorf("%w: length splits a surrogate pair", ErrMalformedFrame)
		}
		size += width
		count += w
	}
	return size, true, nil
}

const hexDigits = "0123456789abcdef"

// escapeNonASCII rewrites every non-ASCII rune of a JSON document as a \uXXXX
// escape, using a surrogate pair above U+FFFF. Outside strings valid JSON is
// ASCII already. Invalid bytes become \ufffd.
func escapeNonASCII(body []byte) []byte {
	i := 0
	for i < len(body) && body[i] < utf8.RuneSelf {
		i++
	}
	if i == len(body) {
		return body
	}

	out := make([]byte, i, len(body)+16)
	copy(out, body[:i])
	for i < len(body) {
		if body[i] < utf8.RuneSelf {
			out = append(out, body[i])
			i++
			continue
		}
		r, width := utf8.DecodeRune(body[i:])
		i += width
		if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError {
			out = appendEscape(out, r1)
			out = appendEscape(out, r2)
			continue
		}
		out = appendEscape(out, r)
	}
	return out
}

func appendEscape(out []byte, r rune) []byte {
	return append(out, '\\', 'u',
		hexDigits[r>>12&0xf], hexDigits[r>>8&0xf], hexDigits[r>>4&0xf], hexDigits[r&0xf])
}

// EncodePacket marshals and frames a packet.
func EncodePacket(p *Packet) ([]byte, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("rpc: encode packet: %w", err)
	}
	return FrameMessage(body), nil
}

// DecodePacket parses a frame body into a packet.
func DecodePacket(body []byte) (*Packet, error) {
	var p Packet
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("rpc: decode packet: %w", err)
	}
	return &p, nil
}

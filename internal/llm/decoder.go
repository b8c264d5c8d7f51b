package llm

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// maxRetry bounds how much of a malformed line is kept for rejoining
const maxRetry = 64 * 1024

// Decoder turns raw chunks of a server-sent-event body into content deltas.
// Chunks may split lines, JSON objects and UTF-8 sequences anywhere.
type Decoder struct {
	pending []byte // trailing bytes of an incomplete rune
	carry   string // text after the last newline
	retry   string // payload that failed to parse, rejoined with the next line
	done    bool
	err     *APIError
}

func NewDecoder() *Decoder {
	return &Decoder{}
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Error *errorBody `json:"error"`
}

// Feed consumes one chunk and returns the content deltas of every complete
// line, in order. Malformed lines never produce errors.
func (d *Decoder) Feed(chunk []byte) []string {
	if d.done {
		return nil
	}

	data := append(d.pending, chunk...)
	complete, rest := splitUTF8(data)
	d.pending = append([]byte(nil), rest...)
	d.carry += string(complete)

	var out []string
	for !d.done {
		i := strings.IndexByte(d.carry, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimRight(d.carry[:i], "\r")
		d.carry = d.carry[i+1:]

		if text := d.line(line); text != "" {
			out = append(out, text)
		}
	}
	return out
}

// Done reports whether the end-of-stream sentinel was seen
func (d *Decoder) Done() bool {
	return d.done
}

// Err returns an error envelope delivered inside the stream, if any
func (d *Decoder) Err() *APIError {
	return d.err
}

// Close discards any buffered input
func (d *Decoder) Close() {
	d.done = true
	d.pending = nil
	d.carry = ""
	d.retry = ""
}

func (d *Decoder) line(line string) string {
	if line == "" {
		return ""
	}

	if d.retry != "" {
		joined := d.retry + line
		if content, ok := d.parse(joined); ok {
			d.retry = ""
			return content
		}
		if !strings.HasPrefix(line, "data:") {
			if len(joined) <= maxRetry {
				d.retry = joined
			} else {
				d.retry = ""
			}
			return ""
		}
		d.retry = ""
	}

	payload, ok := strings.CutPrefix(line, "data:")
	if !ok {
		return ""
	}
	payload = strings.TrimSpace(payload)
	if payload == "[DONE]" {
		d.Close()
		return ""
	}

	content, ok := d.parse(payload)
	if !ok {
		d.retry = payload
		return ""
	}
	return content
}

func (d *Decoder) parse(payload string) (string, bool) {
	var chunk streamChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		return "", false
	}
	if chunk.Error != nil && d.err == nil {
		d.err = &APIError{Message: chunk.Error.Message}
	}
	if len(chunk.Choices) == 0 {
		return "", true
	}
	return chunk.Choices[0].Delta.Content, true
}

// splitUTF8 separates a trailing incomplete rune from the rest of b
func splitUTF8(b []byte) (complete, rest []byte) {
	for i := len(b) - 1; i >= 0 && i > len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return b[:i], b[i:]
			}
			break
		}
	}
	return b, nil
}

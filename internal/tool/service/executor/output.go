package executor

import (
	"bytes"
)

// binarySampleSize is the number of leading bytes scanned for NUL bytes.
// Git uses the same heuristic.
const binarySampleSize = 8000

// collector captures command output with size limits and binary content detection.
type collector struct {
	buffer    bytes.Buffer
	maxBytes  int
	truncated bool
	isBinary  bool

	bytesChecked int
	sampleSize   int
}

func newCollector(maxBytes int, sampleSize int) *collector {
	return &collector{
		maxBytes:   maxBytes,
		sampleSize: sampleSize,
	}
}

func (c *collector) Write(p []byte) (n int, err error) {
	if c.isBinary {
		return len(p), nil
	}

	if c.bytesChecked < c.sampleSize {
		remainingCheck := c.sampleSize - c.bytesChecked
		toCheck := p
		if len(toCheck) > remainingCheck {
			toCheck = toCheck[:remainingCheck]
		}

		if isBinaryContent(toCheck) {
			c.isBinary = true
			c.truncated = true
			return len(p), nil
		}
		c.bytesChecked += len(toCheck)
	}

	remainingSpace := c.maxBytes - c.buffer.Len()
	if remainingSpace <= 0 {
		c.truncated = true
		return len(p), nil
	}

	toWrite := p
	if len(toWrite) > remainingSpace {
		toWrite = toWrite[:remainingSpace]
		c.truncated = true
	}

	written, err := c.buffer.Write(toWrite)
	if err != nil {
		return written, err
	}

	return len(p), nil
}

func (c *collector) String() string {
	if c.isBinary {
		return "[Binary Content]"
	}
	return c.buffer.String()
}

func (c *collector) Truncated() bool {
	return c.truncated
}

// isBinaryContent looks for NUL bytes, treating UTF-16/UTF-32 BOMs as text.
func isBinaryContent(content []byte) bool {
	if len(content) >= 2 {
		if (content[0] == 0xFF && content[1] == 0xFE) ||
			(content[0] == 0xFE && content[1] == 0xFF) {
			return false
		}
	}
	if len(content) >= 4 {
		if content[0] == 0x00 && content[1] == 0x00 && content[2] == 0xFE && content[3] == 0xFF {
			return false
		}
	}

	for _, b := range content {
		if b == 0 {
			return true
		}
	}
	return false
}

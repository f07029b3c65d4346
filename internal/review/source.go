package review

import (
	"fmt"
	"os"
	"strings"
)

// ReadSource reads a file as text. Byte sequences that are not valid UTF-8
// are dropped and line endings are normalized to "\n"; only filesystem
// errors are returned.
func ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading source: %w", err)
	}
	return DecodeText(data), nil
}

// DecodeText converts raw bytes to text the way ReadSource does.
func DecodeText(data []byte) string {
	text := strings.ToValidUTF8(string(data), "")
	if strings.IndexByte(text, '\r') >= 0 {
		text = strings.ReplaceAll(text, "\r\n", "\n")
		text = strings.ReplaceAll(text, "\r", "\n")
	}
	return text
}

package pdfbleach

import (
	"bufio"
	"bytes"
	"errors"
)

func bufioReader(b []byte) *bufio.Reader {
	return bufio.NewReader(bytes.NewReader(b))
}

func isKind(err, kind error) bool {
	return errors.Is(err, kind)
}

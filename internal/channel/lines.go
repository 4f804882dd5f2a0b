package channel

import (
	"bufio"
	"io"
	"strings"
)

type lineResult struct {
	text string
	err  error
}

// lineReader reads one line from its input each time a line is requested.
// Nothing is read from the input between requests.
type lineReader struct {
	input    *bufio.Reader
	requests chan struct{}
	results  chan lineResult
}

func newLineReader(r io.Reader) *lineReader {
	l := &lineReader{
		input:    bufio.NewReader(r),
		requests: make(chan struct{}, 1),
		results:  make(chan lineResult, 1),
	}
	go l.run()
	return l
}

func (l *lineReader) run() {
	for range l.requests {
		text, err := readLine(l.input)
		l.results <- lineResult{text: text, err: err}
		if err != nil {
			return
		}
	}
}

// request asks for the next line. At most one request may be outstanding.
func (l *lineReader) request() {
	select {
	case l.requests <- struct{}{}:
	default:
	}
}

// stop ends the reader once it is idle. A read in progress is abandoned.
func (l *lineReader) stop() {
	close(l.requests)
}

// readLine returns one line without its terminator. A final line without a
// newline is still a line; io.EOF is only returned when nothing was read.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

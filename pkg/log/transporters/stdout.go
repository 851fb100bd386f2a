// Package transporters contains log.Transporter implementations.
package transporters

import (
	"encoding/json"
	"io"
	"os"
	"sync"

	"icp-hunter/pkg/log"
)

// Stdout writes newline-delimited JSON entries to a writer.
type Stdout struct {
	mu sync.Mutex
	w  io.Writer
}

// NewStdout writes to os.Stdout.
func NewStdout() *Stdout {
	return &Stdout{w: os.Stdout}
}

// NewStdoutWithWriter writes to w instead of os.Stdout.
func NewStdoutWithWriter(w io.Writer) *Stdout {
	return &Stdout{w: w}
}

func (s *Stdout) Name() string { return "stdout" }

func (s *Stdout) Write(entry log.Entry) error {
	return writeLine(&s.mu, s.w, entry)
}

func (s *Stdout) Close() error { return nil }

func writeLine(mu *sync.Mutex, w io.Writer, entry log.Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	_, err = w.Write(append(data, '\n'))
	return err
}

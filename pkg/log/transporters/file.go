package transporters

import (
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"icp-hunter/pkg/log"
)

// FileOptions configures the rotating file transporter.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// File writes newline-delimited JSON entries to a size-rotated file.
type File struct {
	mu  sync.Mutex
	out *lumberjack.Logger
}

// NewFile creates the transporter. The file is opened lazily on first write.
func NewFile(opts FileOptions) *File {
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = 50
	}
	return &File{out: &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}}
}

func (f *File) Name() string { return "file" }

func (f *File) Write(entry log.Entry) error {
	return writeLine(&f.mu, f.out, entry)
}

// Rotate closes the current file and starts a new one.
func (f *File) Rotate() error {
	return f.out.Rotate()
}

func (f *File) Close() error {
	return f.out.Close()
}

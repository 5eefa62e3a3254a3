package logger

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxSize = 10
	maxBack = 5
	maxAge  = 30
)

// RotatingFile returns a size-rotated, gzip-compressed log file writer.
func RotatingFile(path string) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSize, // megabytes
		MaxBackups: maxBack,
		MaxAge:     maxAge, // days
		Compress:   true,
	}
}

package console

import (
	"io"
	"sync"
)

type flusher interface {
	Flush() error
}

// FlushingWriter makes progress lines visible immediately when the destination buffers its output.
type FlushingWriter struct {
	destination io.Writer
	mutex       sync.Mutex
}

// NewFlushingWriter wraps destination, returning it unchanged when it is already a FlushingWriter.
func NewFlushingWriter(destination io.Writer) io.Writer {
	if destination == nil {
		return io.Discard
	}
	if existingWriter, alreadyWrapped := destination.(*FlushingWriter); alreadyWrapped {
		return existingWriter
	}
	return &FlushingWriter{destination: destination}
}

// Write forwards data and flushes the destination when it supports flushing.
func (writer *FlushingWriter) Write(data []byte) (int, error) {
	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	bytesWritten, writeError := writer.destination.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}

	if flushableDestination, supportsFlush := writer.destination.(flusher); supportsFlush {
		if flushError := flushableDestination.Flush(); flushError != nil {
			return bytesWritten, flushError
		}
	}
	return bytesWritten, nil
}

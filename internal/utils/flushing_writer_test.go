package utils_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/workspaces/internal/utils"
)

const testFlushedPayloadConstant = "M\tsrc/index.ts\n"

type flushRecordingWriter struct {
	buffer     bytes.Buffer
	flushCount int
}

func (writer *flushRecordingWriter) Write(data []byte) (int, error) {
	return writer.buffer.Write(data)
}

func (writer *flushRecordingWriter) Flush() error {
	writer.flushCount++
	return nil
}

func TestFlushingWriterFlushesAfterEachWrite(testInstance *testing.T) {
	underlyingWriter := &flushRecordingWriter{}
	flushingWriter := utils.NewFlushingWriter(underlyingWriter)

	bytesWritten, writeError := flushingWriter.Write([]byte(testFlushedPayloadConstant))

	require.NoError(testInstance, writeError)
	require.Equal(testInstance, len(testFlushedPayloadConstant), bytesWritten)
	require.Equal(testInstance, testFlushedPayloadConstant, underlyingWriter.buffer.String())
	require.Equal(testInstance, 1, underlyingWriter.flushCount)
}

func TestFlushingWriterSupportsPlainWriters(testInstance *testing.T) {
	buffer := &bytes.Buffer{}
	flushingWriter := utils.NewFlushingWriter(buffer)

	_, writeError := flushingWriter.Write([]byte(testFlushedPayloadConstant))

	require.NoError(testInstance, writeError)
	require.Equal(testInstance, testFlushedPayloadConstant, buffer.String())
}

func TestNewFlushingWriterAvoidsDoubleWrapping(testInstance *testing.T) {
	buffer := &bytes.Buffer{}
	wrappedOnce := utils.NewFlushingWriter(buffer)
	wrappedTwice := utils.NewFlushingWriter(wrappedOnce)

	require.Same(testInstance, wrappedOnce, wrappedTwice)
}

func TestNewFlushingWriterNilWriter(testInstance *testing.T) {
	require.Nil(testInstance, utils.NewFlushingWriter(nil))
}

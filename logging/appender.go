package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultTimeFormatStr is the time format used by ConsoleAppender's human-readable lines.
const DefaultTimeFormatStr = "2006-01-02T15:04:05.000Z0700"

// Appender is a destination for log entries. It is a subset of the zapcore.Core
// interface: just enough for an appenderCore to fan entries out to several of them.
type Appender interface {
	// Write submits a structured log entry to the appender.
	Write(zapcore.Entry, []zapcore.Field) error
	// Sync flushes any buffered output. Called e.g. at shutdown.
	Sync() error
}

// ConsoleAppender renders log events as tab-separated human-readable lines.
type ConsoleAppender struct {
	io.Writer
}

// NewStdoutAppender creates an appender that prints to stdout.
func NewStdoutAppender() ConsoleAppender {
	return ConsoleAppender{os.Stdout}
}

// NewWriterAppender creates an appender that prints to an arbitrary writer.
func NewWriterAppender(writer io.Writer) ConsoleAppender {
	return ConsoleAppender{writer}
}

// NewFileAppender creates an Appender that writes to a log file with rotation enabled,
// so that restarting a long-running solve with the same filename moves the previous
// file out of the way rather than truncating it. The returned io.Closer releases the
// underlying file handle.
func NewFileAppender(filename string) (Appender, io.Closer, error) {
	logger := &lumberjack.Logger{
		Filename: filename,
		// Large enough that rollover is driven by process restarts, not size.
		MaxSize: 1024 * 1024,
	}
	if err := logger.Rotate(); err != nil {
		return nil, nil, fmt.Errorf("creating log file %s: %w", filename, err)
	}
	return NewWriterAppender(logger), logger, nil
}

// ZapcoreFieldsToJSON serializes fields into a JSON object, preserving field order.
func ZapcoreFieldsToJSON(fields []zapcore.Field) (result string, err error) {
	// zap's JSON encoder can panic on type/value mismatches that slip through field
	// construction; recover so one malformed field doesn't take down the caller's goroutine.
	defer func() {
		if r := recover(); r != nil {
			if perr, ok := r.(error); ok {
				err = fmt.Errorf("panic serializing log fields: %w", perr)
				return
			}
			err = fmt.Errorf("panic serializing log fields: %v", r)
		}
	}()
	enc := zapcore.NewJSONEncoder(zapcore.EncoderConfig{SkipLineEnding: true})
	buf, err := enc.EncodeEntry(zapcore.Entry{}, fields)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write renders one line to the underlying stream.
func (appender ConsoleAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	const numHeaderCols = 5
	toPrint := make([]string, 0, numHeaderCols)
	// UTC so logs from different processes can be compared without matching timezones.
	toPrint = append(toPrint, entry.Time.UTC().Format(DefaultTimeFormatStr))
	toPrint = append(toPrint, strings.ToUpper(entry.Level.String()))
	toPrint = append(toPrint, entry.LoggerName)
	if entry.Caller.Defined {
		toPrint = append(toPrint, callerToString(&entry.Caller))
	}
	toPrint = append(toPrint, entry.Message)

	if len(fields) == 0 {
		_, err := fmt.Fprintln(appender.Writer, strings.Join(toPrint, "\t"))
		return err
	}

	fieldsJSON, err := ZapcoreFieldsToJSON(fields)
	if err != nil {
		if errJSON, merr := json.Marshal(map[string]string{"logging_err": err.Error()}); merr == nil {
			toPrint = append(toPrint, string(errJSON))
		} else {
			toPrint = append(toPrint, err.Error())
		}
	} else {
		toPrint = append(toPrint, fieldsJSON)
	}

	_, err = fmt.Fprintln(appender.Writer, strings.Join(toPrint, "\t"))
	return err
}

// Sync is a no-op for a plain writer.
func (appender ConsoleAppender) Sync() error {
	return nil
}

// callerToString trims caller.File down to "<package>/<file>:<line>".
// The input caller must satisfy caller.Defined == true.
func callerToString(caller *zapcore.EntryCaller) string {
	cnt := 0
	idx := strings.LastIndexFunc(caller.File, func(rn rune) bool {
		if rn == '/' {
			cnt++
		}
		return cnt == 2
	})
	return fmt.Sprintf("%s:%d", caller.File[idx+1:], caller.Line)
}

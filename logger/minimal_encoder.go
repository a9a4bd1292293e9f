package logger

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// minimalEncoder renders log entries as a single calm line:
//
//	15:04:05 INFO  kernel  booted  atoms=412 procs=0
//
// Structured fields are appended as key=value pairs. It deliberately skips
// caller and stack information for console output; use JSON mode when those
// matter.
type minimalEncoder struct {
	zapcore.Encoder
	pool buffer.Pool
}

func newMinimalEncoder() zapcore.Encoder {
	cfg := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "ts",
		NameKey:        "logger",
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("15:04:05"),
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	return &minimalEncoder{
		Encoder: zapcore.NewConsoleEncoder(cfg),
		pool:    buffer.NewPool(),
	}
}

func (e *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{Encoder: e.Encoder.Clone(), pool: e.pool}
}

func (e *minimalEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	line := e.pool.Get()

	line.AppendString(entry.Time.Format("15:04:05"))
	line.AppendByte(' ')
	line.AppendString(levelTag(entry.Level))
	if entry.LoggerName != "" {
		line.AppendByte(' ')
		line.AppendString(entry.LoggerName)
	}
	line.AppendString("  ")
	line.AppendString(entry.Message)

	for _, f := range fields {
		line.AppendByte(' ')
		line.AppendString(f.Key)
		line.AppendByte('=')
		appendFieldValue(line, f)
	}

	line.AppendByte('\n')
	return line, nil
}

func levelTag(l zapcore.Level) string {
	switch l {
	case zapcore.DebugLevel:
		return "DEBUG"
	case zapcore.InfoLevel:
		return "INFO "
	case zapcore.WarnLevel:
		return "WARN "
	case zapcore.ErrorLevel:
		return "ERROR"
	default:
		return l.CapitalString()
	}
}

func appendFieldValue(line *buffer.Buffer, f zapcore.Field) {
	switch f.Type {
	case zapcore.StringType:
		line.AppendString(f.String)
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type:
		line.AppendInt(f.Integer)
	case zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		line.AppendUint(uint64(f.Integer))
	case zapcore.BoolType:
		line.AppendBool(f.Integer == 1)
	case zapcore.Float64Type:
		fmt.Fprintf(line, "%g", math.Float64frombits(uint64(f.Integer)))
	case zapcore.DurationType:
		line.AppendString(time.Duration(f.Integer).String())
	case zapcore.ErrorType:
		if err, ok := f.Interface.(error); ok {
			line.AppendString(err.Error())
		}
	default:
		fmt.Fprintf(line, "%v", f.Interface)
	}
}

package log

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/kochabx/coresdk/errors"
	"github.com/kochabx/coresdk/log/writer"
)

// Logger 日志记录器
type Logger struct {
	zerolog.Logger
	closer io.Closer // 文件输出时用于释放资源
}

// Close 关闭日志记录器，释放资源
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func init() {
	zerolog.TimeFieldFormat = time.DateTime
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// newLogger 统一的 Logger 构建方法
func newLogger(w io.Writer, opts ...Option) *Logger {
	logger := &Logger{
		Logger: zerolog.New(w).With().Timestamp().Logger(),
	}

	for _, opt := range opts {
		opt(logger)
	}

	return logger
}

// New 创建新的 Logger 实例，输出到控制台
func New(opts ...Option) *Logger {
	return newLogger(writer.Console(), opts...)
}

// NewWriter 创建输出到任意 writer 的 Logger（JSON 格式）
func NewWriter(w io.Writer, opts ...Option) *Logger {
	return newLogger(w, opts...)
}

// NewFile 创建文件输出的 Logger
func NewFile(c FileConfig, opts ...Option) (*Logger, error) {
	w, err := writer.File(c.withDefaults().toWriterConfig())
	if err != nil {
		return nil, errors.Wrap(err, errors.UnknownCode, "failed to create file writer")
	}

	logger := newLogger(w, opts...)
	if closer, ok := w.(io.Closer); ok {
		logger.closer = closer
	}

	return logger, nil
}

// NewMulti 创建同时输出到文件和控制台的 Logger
func NewMulti(c FileConfig, opts ...Option) (*Logger, error) {
	fw, err := writer.File(c.withDefaults().toWriterConfig())
	if err != nil {
		return nil, errors.Wrap(err, errors.UnknownCode, "failed to create file writer")
	}

	logger := newLogger(zerolog.MultiLevelWriter(fw, writer.Console()), opts...)
	if closer, ok := fw.(io.Closer); ok {
		logger.closer = closer
	}

	return logger, nil
}

// FromConfig 按配置创建 Logger
func FromConfig(c Config, opts ...Option) (*Logger, error) {
	level := zerolog.InfoLevel
	if c.Level != "" {
		var err error
		if level, err = zerolog.ParseLevel(c.Level); err != nil {
			return nil, errors.Wrap(err, 400, "invalid log level %q", c.Level)
		}
	}
	base := []Option{WithLevel(level)}
	if c.Caller {
		base = append(base, WithCaller())
	}
	opts = append(base, opts...)

	switch c.Output {
	case "", OutputConsole:
		return New(opts...), nil
	case OutputFile:
		return NewFile(c.File, opts...)
	case OutputMulti:
		return NewMulti(c.File, opts...)
	default:
		return nil, errors.BadRequest("unsupported log output %q", c.Output)
	}
}

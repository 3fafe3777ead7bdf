package log

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

var global atomic.Pointer[Logger]

func init() {
	global.Store(New())
}

// G 返回全局日志实例
func G() *Logger {
	return global.Load()
}

// SetGlobalLogger 设置全局日志记录器
func SetGlobalLogger(logger *Logger) {
	if logger != nil {
		global.Store(logger)
	}
}

// Debug 返回 debug 级别的日志事件
func Debug() *zerolog.Event {
	return G().Debug()
}

// Info 返回 info 级别的日志事件
func Info() *zerolog.Event {
	return G().Info()
}

// Warn 返回 warn 级别的日志事件
func Warn() *zerolog.Event {
	return G().Warn()
}

// Error 返回 error 级别的日志事件（带堆栈）
func Error() *zerolog.Event {
	return G().Error().Stack()
}

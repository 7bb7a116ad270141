// Package logger 提供简单的分级日志工具。
// Logger 实例作为依赖注入到调度器、执行器等组件中，不依赖进程级全局状态。
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Level 日志级别
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	// LevelSilent 关闭所有输出
	LevelSilent
)

// ParseLevel 从字符串解析日志级别，未知值返回 Info。
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "silent", "off":
		return LevelSilent
	default:
		return LevelInfo
	}
}

// Logger 是一个带级别过滤的日志器。
type Logger struct {
	mu    sync.Mutex
	level Level
	out   io.Writer
}

// New 创建一个输出到 stderr 的 Logger。
func New(level Level) *Logger {
	return NewWithOutput(level, os.Stderr)
}

// NewWithOutput 创建一个输出到指定 writer 的 Logger。
func NewWithOutput(level Level, out io.Writer) *Logger {
	return &Logger{level: level, out: out}
}

// Nop 返回一个丢弃所有输出的 Logger，用于测试。
func Nop() *Logger {
	return &Logger{level: LevelSilent, out: io.Discard}
}

// SetLevel 设置日志级别。
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// IsDebugEnabled 检查是否启用调试日志。
func (l *Logger) IsDebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level <= LevelDebug
}

func (l *Logger) logf(level Level, prefix, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level > level {
		return
	}
	fmt.Fprintf(l.out, prefix+format+"\n", args...)
}

// Debug 输出调试日志。
func (l *Logger) Debug(format string, args ...any) {
	l.logf(LevelDebug, "[DEBUG] ", format, args...)
}

// Info 输出信息日志。
func (l *Logger) Info(format string, args ...any) {
	l.logf(LevelInfo, "[INFO] ", format, args...)
}

// Warn 输出警告日志。
func (l *Logger) Warn(format string, args ...any) {
	l.logf(LevelWarn, "[WARN] ", format, args...)
}

// Error 输出错误日志。
func (l *Logger) Error(format string, args ...any) {
	l.logf(LevelError, "[ERROR] ", format, args...)
}

// std 是 CLI 使用的默认 Logger。
var std = New(LevelInfo)

// Default 返回默认 Logger。
func Default() *Logger { return std }

// SetLevelFromString 从字符串设置默认 Logger 的级别。
func SetLevelFromString(level string) {
	std.SetLevel(ParseLevel(level))
}

// EnableDebug 启用默认 Logger 的调试日志。
func EnableDebug() {
	std.SetLevel(LevelDebug)
}

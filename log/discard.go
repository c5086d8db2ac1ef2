// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package log

import (
	"fmt"
	"io"
	golog "log"
	"os"
)

// exit terminates the process on Fatal. Tests replace it.
var exit = os.Exit

// discard drops every entry below Fatal. Fatal still exits and Panic still
// panics so that control flow does not depend on the logger in use.
type discard struct {
	level  Level
	stdLog *golog.Logger
}

func newDiscard(level Level) discard {
	return discard{level: level, stdLog: golog.New(io.Discard, "", 0)}
}

func (discard) Debug(...any)          {}
func (discard) Debugf(string, ...any) {}
func (discard) Info(...any)           {}
func (discard) Infof(string, ...any)  {}
func (discard) Warn(...any)           {}
func (discard) Warnf(string, ...any)  {}
func (discard) Error(...any)          {}
func (discard) Errorf(string, ...any) {}

func (discard) Fatal(...any) {
	exit(1)
}

func (discard) Fatalf(string, ...any) {
	exit(1)
}

func (discard) Panic(v ...any) {
	panic(fmt.Sprint(v...))
}

func (discard) Panicf(format string, v ...any) {
	panic(fmt.Sprintf(format, v...))
}

func (d discard) LogLevel() Level {
	return d.level
}

func (discard) Enabled(level Level) bool {
	return level == FatalLevel || level == PanicLevel
}

func (d discard) With(...any) Logger {
	return d
}

func (discard) LogOutput() []io.Writer {
	return []io.Writer{io.Discard}
}

func (d discard) StdLogger() *golog.Logger {
	return d.stdLog
}

func (discard) Flush() error {
	return nil
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// 命令行退出码
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // 操作本身失败
	ExitCommandError = 2 // 参数、配置或数据库无法使用
)

// ExitError 携带一个指定的退出码
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError 用退出码包装一个已有错误
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode 从错误中取出退出码，普通错误视为 ExitFailure
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Response 是 --format json 时的输出结构
type Response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
}

// emit 以选定的格式输出结果，text 为nil时文本模式直接打印data
func emit(w io.Writer, format string, data interface{}, text func(io.Writer)) error {
	if format == "json" {
		return json.NewEncoder(w).Encode(Response{Status: "ok", Data: data})
	}
	if text == nil {
		_, err := fmt.Fprintln(w, data)
		return err
	}
	text(w)
	return nil
}

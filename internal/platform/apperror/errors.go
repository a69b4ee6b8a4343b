package apperror

import (
	"errors"
	"fmt"
)

// ValidationError 表示请求参数不合法，在任何写入之前就被拒绝，重试也不会成功。
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Invalid 构造一个ValidationError
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// StorageError 包装了底层存储(gorm/SQL)的读写失败。
// 所有操作都是幂等的，调用方可以直接重试整个操作。
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Storage 将err包装为StorageError，err为nil时返回nil
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsValidation 判断错误链中是否包含ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsStorage 判断错误链中是否包含StorageError
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

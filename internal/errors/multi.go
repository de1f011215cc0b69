package errors

import "errors"

type MultiError struct {
	msg    string
	errors []error
}

func NewMultiError(msg string) *MultiError {
	return &MultiError{
		msg: msg,
	}
}

func (m *MultiError) Append(err error) {
	if err != nil {
		m.errors = append(m.errors, err)
	}
}

func (m *MultiError) Errors() []error {
	return m.errors
}

func IsEmptyError(err error) bool {
	var me *MultiError
	if errors.As(err, &me) {
		return len(me.errors) == 0
	}
	return false
}

// MultiToError collapses an empty MultiError to nil so callers can
// return it directly.
func MultiToError(err error) error {
	if err == nil {
		return nil
	}
	var me *MultiError
	if errors.As(err, &me) && len(me.errors) == 0 {
		return nil
	}
	return err
}

func (m *MultiError) Error() string {
	errStr := m.msg + ": "
	for _, err := range m.errors {
		errStr = errStr + ": " + err.Error() + "\n"
	}
	return errStr
}

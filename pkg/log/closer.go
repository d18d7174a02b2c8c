package log

import (
	"errors"
	"io"
	"sync/atomic"
)

// closer Setup이 생성한 로그 파일들을 한 번에 정리합니다.
//
// Hook을 먼저 닫아 새 로그 유입을 막은 뒤 파일을 닫습니다. 중복 호출은 무시됩니다.
type closer struct {
	closers []io.Closer
	hook    *hook

	closed atomic.Bool
}

func (c *closer) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	if c.hook != nil {
		_ = c.hook.Close()
	}

	var errs error
	for _, cl := range c.closers {
		if cl == nil {
			continue
		}
		if s, ok := cl.(interface{ Sync() error }); ok {
			_ = s.Sync()
		}
		if err := cl.Close(); err != nil {
			errs = errors.Join(errs, err)
		}
	}

	return errs
}

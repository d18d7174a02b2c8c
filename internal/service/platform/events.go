package platform

import (
	"context"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	"golang.org/x/sync/errgroup"
)

// WaitForResultsAvailability 모든 결과가 Completed가 될 때까지 대기합니다.
//
// 결과 중 하나라도 Aborted가 되면 나머지를 기다리지 않고 ExecutionFailed 에러를 반환하며,
// ctx가 먼저 종료되면 Timeout 또는 Canceled 유형의 에러를 반환합니다.
func (s *Service) WaitForResultsAvailability(ctx context.Context, sessionID contract.SessionID, resultIDs []contract.ResultID) error {
	s.mu.Lock()

	if _, err := s.sessionLocked(sessionID); err != nil {
		s.mu.Unlock()
		return err
	}

	waiting := make([]*result, 0, len(resultIDs))
	for _, id := range resultIDs {
		r, err := s.resultLocked(sessionID, id)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		waiting = append(waiting, r)
	}

	s.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, r := range waiting {
		g.Go(func() error {
			select {
			case <-r.done:
			case <-gctx.Done():
				return apperrors.Classify(gctx.Err(), "결과 대기가 중단되었습니다")
			}

			s.mu.Lock()
			status, reason := r.meta.Status, r.abortReason
			s.mu.Unlock()

			if status == contract.ResultStatusAborted {
				return newErrResultAborted(r.meta.ID, reason)
			}
			return nil
		})
	}

	return g.Wait()
}

// Package cronx robfig/cron 위에 애플리케이션 공통 스케줄 표현식 규칙을 정의합니다.
package cronx

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// StandardParser 초 단위를 포함한 6필드 표현식과 Descriptor(@every, @hourly 등)를 지원하는 파서입니다.
//
//	"*/30 * * * * *" : 30초마다
//	"@every 30s"     : 30초 간격
func StandardParser() cron.Parser {
	return cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
}

// Validate 표현식이 StandardParser로 해석 가능한지 검사합니다.
func Validate(spec string) error {
	if _, err := StandardParser().Parse(spec); err != nil {
		return fmt.Errorf("유효하지 않은 스케줄 표현식('%s'): %w", spec, err)
	}
	return nil
}

// New StandardParser를 사용하는 cron 스케줄러를 생성합니다.
// 실행 중 발생한 패닉은 복구되어 작업 단위로 격리됩니다.
func New() *cron.Cron {
	return cron.New(
		cron.WithParser(StandardParser()),
		cron.WithChain(cron.Recover(cron.DefaultLogger)),
	)
}

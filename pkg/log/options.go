package log

import (
	"fmt"
	"os"
)

// Options 로깅 시스템 초기화 옵션입니다.
type Options struct {
	Name  string // 로그 파일명에 사용될 애플리케이션 식별자 (예: "armonik-local" → armonik-local.log)
	Dir   string // 로그 파일이 저장될 디렉토리 (빈 값: ./logs)
	Level Level  // 최소 기록 레벨 (0: InfoLevel로 간주)

	MaxAge     int // 로테이션된 파일 보관 기간 (일, 0: 삭제하지 않음)
	MaxSizeMB  int // 파일 하나의 최대 크기 (MB, 0: 100MB)
	MaxBackups int // 보관할 로테이션 파일 수 (0: 20개)

	EnableCriticalLog bool // ERROR 이상을 <name>.critical.log로 별도 보관
	EnableVerboseLog  bool // DEBUG 이하를 <name>.verbose.log로 분리 (메인 로그에는 남기지 않음)
	EnableConsoleLog  bool // 모든 로그를 표준 출력으로도 내보냄

	// ReportCaller 로그를 남긴 함수와 라인 번호를 함께 기록할지 여부입니다.
	ReportCaller bool

	// CallerPathPrefix 호출자 함수명에서 잘라낼 패키지 경로 접두사입니다.
	// 예: "github.com/darkkaiser/armonik-samples" → ".../internal/kernel.Compute(line:42)"
	CallerPathPrefix string
}

// Validate 옵션 값의 유효성을 검사합니다.
func (opts *Options) Validate() error {
	if opts.Name == "" {
		return fmt.Errorf("애플리케이션 식별자(Name)가 설정되지 않았습니다")
	}

	if opts.Dir != "" {
		if info, err := os.Stat(opts.Dir); err == nil && !info.IsDir() {
			return fmt.Errorf("로그 디렉토리 경로(%s)가 이미 파일로 존재합니다", opts.Dir)
		}
	}

	for name, v := range map[string]int{"MaxAge": opts.MaxAge, "MaxSizeMB": opts.MaxSizeMB, "MaxBackups": opts.MaxBackups} {
		if v < 0 {
			return fmt.Errorf("%s는 0 이상이어야 합니다: %d", name, v)
		}
	}

	return nil
}

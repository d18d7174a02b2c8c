// Package bootstrap 실행 파일들이 공통으로 거치는 초기화(환경설정 로드, 로그 시스템 초기화, 배너 출력)를 수행합니다.
package bootstrap

import (
	"fmt"
	"io"
	"os"

	"github.com/darkkaiser/armonik-samples/internal/config"
	"github.com/darkkaiser/armonik-samples/internal/pkg/version"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
	"github.com/fatih/color"
)

const component = "main"

// callerPathPrefix 로그의 호출자 정보에서 잘라낼 모듈 경로
const callerPathPrefix = "github.com/darkkaiser/armonik-samples"

// Kind 실행 파일의 종류입니다. 로그 프로파일 선택에 사용됩니다.
type Kind int

const (
	// KindServer 상주하는 서비스 (armonik-local)
	KindServer Kind = iota

	// KindClient 한 번 실행되고 끝나는 샘플 클라이언트
	KindClient
)

// Init 환경설정을 로드하고 로그 시스템을 초기화합니다.
//
// 반환된 Closer는 main 함수에서 defer로 닫아야 합니다. 로거가 준비되기 전에 실패하면
// 호출자가 표준 에러로 출력할 수 있도록 에러만 반환합니다.
func Init(appName string, kind Kind) (*config.AppConfig, io.Closer, error) {
	// 1. 환경설정 로드 (로그 설정에 필요하므로 가장 먼저 수행한다)
	appConfig, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("환경설정 로드 실패: %w", err)
	}

	// 2. 로그 시스템 초기화
	closer, err := applog.Setup(LogOptions(appConfig, appName, kind))
	if err != nil {
		return nil, nil, fmt.Errorf("로그 시스템 초기화 실패: %w", err)
	}

	// 3. 로그 레벨 최종 확정
	applog.SetDebugMode(appConfig.Debug)

	applog.WithComponentAndFields(component, applog.Fields{
		"app":     appName,
		"version": version.Get().String(),
		"env":     map[bool]string{true: "development", false: "production"}[appConfig.Debug],
		"mode":    map[bool]string{true: "embedded", false: "remote"}[appConfig.UseEmbeddedPlatform()],
	}).Info("초기화 완료")

	return appConfig, closer, nil
}

// LogOptions 실행 파일 종류와 log 설정 섹션으로 로그 옵션을 결정합니다.
func LogOptions(appConfig *config.AppConfig, appName string, kind Kind) applog.Options {
	var opts applog.Options
	switch {
	case appConfig.Debug:
		opts = applog.NewDevelopmentOptions(appName)
	case kind == KindClient:
		opts = applog.NewClientOptions(appName)
	default:
		opts = applog.NewProductionOptions(appName)
	}

	opts.Dir = appConfig.Log.Dir
	if appConfig.Log.MaxAge > 0 {
		opts.MaxAge = appConfig.Log.MaxAge
	}
	if appConfig.Log.EnableConsole {
		opts.EnableConsoleLog = true
	}
	opts.CallerPathPrefix = callerPathPrefix

	return opts
}

// PrintBanner 아스키아트 배너를 출력합니다. banner에는 버전이 들어갈 %s가 하나 있어야 합니다.
func PrintBanner(w io.Writer, banner string) {
	c := color.New(color.FgCyan, color.Bold)
	c.Fprintf(w, banner, version.Get().Version)
}

// Fatal 로거 초기화 전의 오류를 표준 에러에 출력하고 종료합니다.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "[FATAL] %v\n", err)
	os.Exit(1)
}

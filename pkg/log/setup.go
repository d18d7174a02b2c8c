package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	fileExt = "log"

	defaultDir        = "logs"
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 20
)

var (
	setupOnce      sync.Once
	globalCloser   io.Closer
	globalSetupErr error
)

// Setup 전역 로깅 시스템을 초기화합니다. 프로세스 생명주기 동안 단 한 번만 적용되며,
// 이후의 호출은 최초 호출의 결과(Closer, 에러)를 그대로 돌려줍니다.
//
// 반환된 Closer는 main 함수에서 defer로 닫아야 합니다.
func Setup(opts Options) (io.Closer, error) {
	setupOnce.Do(func() {
		globalCloser, globalSetupErr = setup(logrus.StandardLogger(), opts)
	})

	return globalCloser, globalSetupErr
}

// rotationPolicy lumberjack 파일들에 공통으로 적용할 로테이션 정책입니다.
type rotationPolicy struct {
	dir        string
	name       string
	maxSizeMB  int
	maxBackups int
	maxAge     int
}

func (p rotationPolicy) writer(suffix string) *lumberjack.Logger {
	filename := p.name + "." + fileExt
	if suffix != "" {
		filename = p.name + "." + suffix + "." + fileExt
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(p.dir, filename),
		MaxSize:    p.maxSizeMB,
		MaxBackups: p.maxBackups,
		MaxAge:     p.maxAge,
		LocalTime:  true,
	}
}

func newTextFormatter(callerPathPrefix string) *logrus.TextFormatter {
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		CallerPrettyfier: func(frame *runtime.Frame) (function string, file string) {
			function = frame.Function + "(line:" + strconv.Itoa(frame.Line) + ")"
			if callerPathPrefix != "" {
				if cut, found := strings.CutPrefix(function, callerPathPrefix); found {
					function = "..." + cut
				}
			}
			return
		},
	}
}

// setup 주어진 Logger에 파일/콘솔 라우팅 Hook을 연결합니다.
func setup(logger *logrus.Logger, opts Options) (io.Closer, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("유효하지 않은 로그 설정: %w", err)
	}

	level := opts.Level
	if level == 0 {
		level = InfoLevel
	}

	policy := rotationPolicy{
		dir:        opts.Dir,
		name:       opts.Name,
		maxSizeMB:  opts.MaxSizeMB,
		maxBackups: opts.MaxBackups,
		maxAge:     opts.MaxAge,
	}
	if policy.dir == "" {
		policy.dir = defaultDir
	}
	if policy.maxSizeMB == 0 {
		policy.maxSizeMB = defaultMaxSizeMB
	}
	if policy.maxBackups == 0 {
		policy.maxBackups = defaultMaxBackups
	}

	if err := os.MkdirAll(policy.dir, 0755); err != nil {
		return nil, fmt.Errorf("로그 디렉토리 생성 실패: %w", err)
	}

	h := &hook{
		formatter: newTextFormatter(opts.CallerPathPrefix),
	}
	closers := make([]io.Closer, 0, 3)

	mainWriter := policy.writer("")
	h.mainWriter = mainWriter
	closers = append(closers, mainWriter)

	if opts.EnableCriticalLog {
		w := policy.writer("critical")
		h.criticalWriter = w
		closers = append(closers, w)
	}
	if opts.EnableVerboseLog {
		w := policy.writer("verbose")
		h.verboseWriter = w
		closers = append(closers, w)
	}
	if opts.EnableConsoleLog {
		h.consoleWriter = os.Stdout
	}

	// 실제 출력은 Hook이 전담하므로 Logger 자체의 출력과 포맷팅은 비활성화합니다.
	logger.SetLevel(level)
	logger.SetReportCaller(opts.ReportCaller)
	logger.SetFormatter(&silentFormatter{})
	logger.SetOutput(io.Discard)
	logger.AddHook(h)

	c := &closer{closers: closers, hook: h}

	// Fatal 로그로 프로세스가 종료되기 직전에 버퍼를 비웁니다.
	logrus.RegisterExitHandler(func() {
		_ = c.Close()
	})

	return c, nil
}

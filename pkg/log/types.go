package log

import "github.com/sirupsen/logrus"

// Level logrus.Level의 별칭입니다.
type Level = logrus.Level

const (
	PanicLevel Level = logrus.PanicLevel
	FatalLevel Level = logrus.FatalLevel
	ErrorLevel Level = logrus.ErrorLevel
	WarnLevel  Level = logrus.WarnLevel
	InfoLevel  Level = logrus.InfoLevel
	DebugLevel Level = logrus.DebugLevel
	TraceLevel Level = logrus.TraceLevel
)

// AllLevels logrus.AllLevels의 별칭입니다.
var AllLevels = logrus.AllLevels

type (
	// Fields 구조화 로그에 함께 기록할 필드 집합입니다.
	Fields = logrus.Fields

	// Entry 필드가 누적된 단일 로그 레코드입니다.
	Entry = logrus.Entry

	// Formatter 로그 레코드를 바이트열로 직렬화합니다.
	Formatter = logrus.Formatter

	// Hook 로그 이벤트를 가로채는 확장 지점입니다.
	Hook = logrus.Hook

	// Logger logrus.Logger의 별칭입니다.
	Logger = logrus.Logger
)

// ParseLevel 문자열("info", "debug" 등)을 Level로 변환합니다.
func ParseLevel(s string) (Level, error) {
	return logrus.ParseLevel(s)
}

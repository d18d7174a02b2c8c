// Package log logrus 기반의 구조화 로깅 유틸리티를 제공합니다.
//
// 모든 서비스는 컴포넌트 이름을 필드로 남기는 WithComponent 계열 함수를 통해 로그를 기록합니다.
//
//	const component = "worker.service"
//	applog.WithComponentAndFields(component, applog.Fields{"task_id": id}).Info("Task 실행 완료")
package log

import (
	"github.com/sirupsen/logrus"
)

// WithComponent component 필드가 포함된 로그 Entry를 반환합니다.
func WithComponent(component string) *Entry {
	return logrus.WithField("component", component)
}

// WithComponentAndFields component 필드와 추가 필드가 포함된 로그 Entry를 반환합니다.
// 전달받은 fields는 변경하지 않습니다.
func WithComponentAndFields(component string, fields Fields) *Entry {
	merged := make(Fields, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	merged["component"] = component

	return logrus.WithFields(merged)
}

// SetDebugMode 디버그 모드이면 TRACE, 아니면 INFO로 전역 로그 레벨을 조정합니다.
func SetDebugMode(debug bool) {
	if debug {
		logrus.SetLevel(TraceLevel)
		return
	}
	logrus.SetLevel(InfoLevel)
}

// StandardLogger 전역 Logger를 반환합니다.
func StandardLogger() *Logger {
	return logrus.StandardLogger()
}

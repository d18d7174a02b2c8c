package log

// NewProductionOptions 상주 서비스(로컬 플랫폼, 워커)의 운영 환경용 설정을 반환합니다.
func NewProductionOptions(appName string) Options {
	return Options{
		Name:  appName,
		Level: InfoLevel,

		MaxAge:     30,
		MaxSizeMB:  100,
		MaxBackups: 20,

		EnableCriticalLog: true,
		EnableVerboseLog:  true,
		EnableConsoleLog:  false,

		ReportCaller: true,
	}
}

// NewDevelopmentOptions 개발 환경용 설정을 반환합니다. 모든 레벨을 한 파일과 콘솔에 함께 출력합니다.
func NewDevelopmentOptions(appName string) Options {
	return Options{
		Name:  appName,
		Level: TraceLevel,

		MaxAge:     1,
		MaxSizeMB:  50,
		MaxBackups: 5,

		EnableConsoleLog: true,

		ReportCaller: true,
	}
}

// NewClientOptions 샘플 클라이언트처럼 짧게 실행되고 끝나는 CLI용 설정을 반환합니다.
//
// 실행 결과를 바로 확인할 수 있도록 콘솔 출력을 켜고, 호출자 정보는 남기지 않습니다.
func NewClientOptions(appName string) Options {
	return Options{
		Name:  appName,
		Level: InfoLevel,

		MaxAge:     7,
		MaxSizeMB:  50,
		MaxBackups: 5,

		EnableCriticalLog: true,
		EnableConsoleLog:  true,
	}
}

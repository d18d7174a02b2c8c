// Package config 샘플 애플리케이션(로컬 플랫폼, 워커, 클라이언트)의 공통 환경설정을 로드합니다.
//
// 설정은 아래 순서로 병합되며 뒤에 오는 값이 우선합니다.
//
//  1. 코드에 정의된 기본값
//  2. appsettings.json (없으면 건너뜀)
//  3. .env 파일 (없으면 건너뜀, 이미 설정된 환경 변수는 덮어쓰지 않음)
//  4. ARMONIK_ 접두사 환경 변수 (이중 밑줄 __ 은 계층 구분자)
//     예: ARMONIK_CONTROL_PLANE__ENDPOINT=http://localhost:5001 → control_plane.endpoint
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultFilename 기본 설정 파일명
	DefaultFilename = "appsettings.json"

	// DefaultDotEnvFilename 기본 .env 파일명
	DefaultDotEnvFilename = ".env"

	// EnvPrefix 설정을 덮어쓰는 환경 변수의 접두사
	EnvPrefix = "ARMONIK_"

	// DefaultPartitionID 파티션을 지정하지 않았을 때 사용하는 파티션
	DefaultPartitionID = "default"
)

// AppConfig 애플리케이션 전체 설정입니다.
type AppConfig struct {
	Debug        bool               `json:"debug"`
	PartitionID  string             `json:"partition_id" validate:"required"`
	ControlPlane ControlPlaneConfig `json:"control_plane"`
	TaskOptions  TaskOptionsConfig  `json:"task_options"`
	WorkerLib    WorkerLibConfig    `json:"worker_lib"`
	Platform     PlatformConfig     `json:"platform"`
	Stress       StressConfig       `json:"stress"`
	Log          LogConfig          `json:"log"`
}

// ControlPlaneConfig 클라이언트가 접속할 컨트롤 플레인 설정입니다.
// Endpoint가 비어 있으면 클라이언트는 같은 프로세스 안에 로컬 플랫폼을 띄워 사용합니다.
type ControlPlaneConfig struct {
	Endpoint       string        `json:"endpoint" validate:"omitempty,http_url"`
	RequestTimeout time.Duration `json:"request_timeout" validate:"gt=0"`
	MaxRetries     int           `json:"max_retries" validate:"gte=0,lte=10"`
	RetryDelay     time.Duration `json:"retry_delay" validate:"gte=0"`
}

// TaskOptionsConfig 세션 생성 시 사용할 기본 Task 옵션입니다.
type TaskOptionsConfig struct {
	MaxDuration time.Duration `json:"max_duration" validate:"gt=0"`
	MaxRetries  int           `json:"max_retries" validate:"gte=0"`
	Priority    int           `json:"priority" validate:"gte=1,lte=99"`
}

// WorkerLibConfig SDK 방식 샘플이 사용하는 워커 애플리케이션 식별 정보입니다.
type WorkerLibConfig struct {
	Name      string `json:"name" validate:"required"`
	Version   string `json:"version" validate:"required"`
	Namespace string `json:"namespace" validate:"required"`
}

// PlatformConfig 로컬 플랫폼(컨트롤 플레인 + 워커) 설정입니다.
type PlatformConfig struct {
	ListenAddress    string          `json:"listen_address" validate:"required,hostname_port"`
	WorkerCount      int             `json:"worker_count" validate:"gte=1"`
	SessionRetention time.Duration   `json:"session_retention" validate:"gt=0"`
	GCSchedule       string          `json:"gc_schedule" validate:"required,cron_spec"`
	RateLimit        RateLimitConfig `json:"rate_limit"`
	CORS             CORSConfig      `json:"cors"`
}

// RateLimitConfig API 서버의 IP별 요청 제한 설정입니다.
type RateLimitConfig struct {
	Enabled           bool    `json:"enabled"`
	RequestsPerSecond float64 `json:"requests_per_second" validate:"gt=0"`
	Burst             int     `json:"burst" validate:"gte=1"`
}

// CORSConfig API 서버의 CORS 허용 목록입니다.
type CORSConfig struct {
	AllowOrigins []string `json:"allow_origins" validate:"dive,cors_origin"`
}

// StressConfig 스트레스 테스트 클라이언트의 제출 전략 설정입니다.
type StressConfig struct {
	MaxParallelChannel  int    `json:"max_parallel_channel" validate:"gte=1"`
	MaxTasksPerBuffer   int    `json:"max_tasks_per_buffer" validate:"gte=1"`
	MaxConcurrentBuffer int    `json:"max_concurrent_buffer" validate:"gte=1"`
	ProgressSchedule    string `json:"progress_schedule" validate:"required,cron_spec"`
	ReportJSONPath      string `json:"report_json_path"`
}

// LogConfig 로그 파일 설정입니다.
type LogConfig struct {
	Dir           string `json:"dir"`
	MaxAge        int    `json:"max_age" validate:"gte=0"`
	EnableConsole bool   `json:"enable_console"`
}

// Default 기본값이 채워진 설정을 반환합니다.
func Default() AppConfig {
	return AppConfig{
		PartitionID: DefaultPartitionID,
		ControlPlane: ControlPlaneConfig{
			RequestTimeout: 30 * time.Second,
			MaxRetries:     3,
			RetryDelay:     time.Second,
		},
		TaskOptions: TaskOptionsConfig{
			MaxDuration: time.Hour,
			MaxRetries:  3,
			Priority:    1,
		},
		WorkerLib: WorkerLibConfig{
			Name:      "ArmoniK.Samples.SDK.Worker",
			Version:   "1.0.0",
			Namespace: "Examples",
		},
		Platform: PlatformConfig{
			ListenAddress:    "127.0.0.1:5001",
			WorkerCount:      4,
			SessionRetention: 10 * time.Minute,
			GCSchedule:       "@every 1m",
			RateLimit: RateLimitConfig{
				Enabled:           false,
				RequestsPerSecond: 200,
				Burst:             400,
			},
			CORS: CORSConfig{AllowOrigins: []string{"*"}},
		},
		Stress: StressConfig{
			MaxParallelChannel:  5,
			MaxTasksPerBuffer:   50,
			MaxConcurrentBuffer: 5,
			ProgressSchedule:    "@every 30s",
		},
		Log: LogConfig{
			Dir:    "logs",
			MaxAge: 7,
		},
	}
}

// Load 기본 경로(appsettings.json, .env)로 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename, DefaultDotEnvFilename)
}

// LoadWithFile 지정한 설정 파일과 .env 파일로 설정을 로드합니다. 두 파일 모두 선택 사항입니다.
func LoadWithFile(filename, dotEnvFilename string) (*AppConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "json"), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "기본 설정 로드에 실패했습니다")
	}

	if filename != "" {
		if err := k.Load(file.Provider(filename), json.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
		}
	}

	if dotEnvFilename != "" {
		if err := godotenv.Load(dotEnvFilename); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf(".env 파일 로드 중 오류가 발생했습니다: '%s'", dotEnvFilename))
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKeyToPath), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	var appConfig AppConfig
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			ErrorUnused:      true,
			WeaklyTypedInput: true,
			Result:           &appConfig,
		},
	}
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, "설정 데이터를 구조체로 변환하는데 실패했습니다")
	}

	if err := appConfig.Validate(); err != nil {
		return nil, err
	}

	return &appConfig, nil
}

// envKeyToPath ARMONIK_CONTROL_PLANE__ENDPOINT → control_plane.endpoint
func envKeyToPath(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

// Validate 설정값의 유효성을 검사합니다.
func (c *AppConfig) Validate() error {
	return checkStruct(defaultValidator, c, "AppConfig")
}

// UseEmbeddedPlatform 컨트롤 플레인 주소가 없어 프로세스 내부 플랫폼을 사용해야 하는지 여부입니다.
func (c *AppConfig) UseEmbeddedPlatform() bool {
	return strings.TrimSpace(c.ControlPlane.Endpoint) == ""
}

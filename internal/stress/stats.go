package stress

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/darkkaiser/armonik-samples/internal/config"
	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	"github.com/fatih/color"
	"github.com/iancoleman/strcase"
)

// KpiKey 스트레스 테스트 보고서의 지표입니다.
type KpiKey int

const (
	KpiTest KpiKey = iota
	KpiCompletedTasks
	KpiTimeSubmittedTasks
	KpiTimeThroughputSubmission
	KpiTimeThroughputProcess
	KpiTimeProcessedTasks
	KpiTimeRetrieveResults
	KpiTimeThroughputResults
	KpiTotalTime
	KpiNbTasks
	KpiNbInputbytes
	KpiNbOutputbytes
	KpiTimeWorkloadInMs
	KpiTasksPerBuffer
	KpiNbChannel
	KpiNbConcurrentBufferPerChannel
	KpiUploadSpeedKb
	KpiDownloadSpeedKb
	KpiNbPodUsed
)

var kpiIdentifiers = [...]string{
	KpiTest:                         "Test",
	KpiCompletedTasks:               "CompletedTasks",
	KpiTimeSubmittedTasks:           "TimeSubmittedTasks",
	KpiTimeThroughputSubmission:     "TimeThroughputSubmission",
	KpiTimeThroughputProcess:        "TimeThroughputProcess",
	KpiTimeProcessedTasks:           "TimeProcessedTasks",
	KpiTimeRetrieveResults:          "TimeRetrieveResults",
	KpiTimeThroughputResults:        "TimeThroughputResults",
	KpiTotalTime:                    "TotalTime",
	KpiNbTasks:                      "NbTasks",
	KpiNbInputbytes:                 "NbInputbytes",
	KpiNbOutputbytes:                "NbOutputbytes",
	KpiTimeWorkloadInMs:             "TimeWorkloadInMs",
	KpiTasksPerBuffer:               "TasksPerBuffer",
	KpiNbChannel:                    "NbChannel",
	KpiNbConcurrentBufferPerChannel: "NbConcurrentBufferPerChannel",
	KpiUploadSpeedKb:                "UploadSpeedKb",
	KpiDownloadSpeedKb:              "DownloadSpeedKb",
	KpiNbPodUsed:                    "NbPodUsed",
}

// String 보고서에 쓰이는 지표 이름입니다. 예: KpiTimeThroughputSubmission → TIME_THROUGHPUT_SUBMISSION
func (k KpiKey) String() string {
	if k < 0 || int(k) >= len(kpiIdentifiers) {
		return "UNKNOWN"
	}
	return strcase.ToScreamingSnake(kpiIdentifiers[k])
}

// TasksStats 세션의 Task 목록으로 계산한 스트레스 테스트 지표입니다.
type TasksStats struct {
	Kpi map[KpiKey]string
}

// NewTasksStats 테스트 조건 지표를 채운 TasksStats를 생성합니다.
func NewTasksStats(nbTasks int, nbInputBytes, nbOutputBytes int64, workLoadTimeInMs int, stressConfig config.StressConfig) *TasksStats {
	return &TasksStats{
		Kpi: map[KpiKey]string{
			KpiTest:                         "StressTest",
			KpiNbTasks:                      strconv.Itoa(nbTasks),
			KpiNbInputbytes:                 strconv.FormatInt(nbInputBytes, 10),
			KpiNbOutputbytes:                strconv.FormatInt(nbOutputBytes, 10),
			KpiTimeWorkloadInMs:             strconv.Itoa(workLoadTimeInMs),
			KpiTasksPerBuffer:               strconv.Itoa(stressConfig.MaxTasksPerBuffer),
			KpiNbChannel:                    strconv.Itoa(stressConfig.MaxParallelChannel),
			KpiNbConcurrentBufferPerChannel: strconv.Itoa(stressConfig.MaxConcurrentBuffer),
		},
	}
}

// Compute start(제출 시작)와 end(모든 결과 수신) 사이에 끝난 Task로 처리량 지표를 계산합니다.
// 성공(Completed)한 Task만 집계합니다.
func (s *TasksStats) Compute(tasks []contract.TaskDetailed, start, end time.Time) {
	completed := make([]contract.TaskDetailed, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == contract.TaskStatusCompleted {
			completed = append(completed, t)
		}
	}
	count := float64(len(completed))

	s.Kpi[KpiCompletedTasks] = strconv.Itoa(len(completed))
	s.Kpi[KpiTotalTime] = formatDuration(end.Sub(start))

	if len(completed) == 0 {
		for _, k := range []KpiKey{KpiTimeSubmittedTasks, KpiTimeProcessedTasks, KpiTimeRetrieveResults} {
			s.Kpi[k] = formatDuration(0)
		}
		for _, k := range []KpiKey{KpiTimeThroughputSubmission, KpiTimeThroughputProcess, KpiTimeThroughputResults, KpiUploadSpeedKb, KpiDownloadSpeedKb} {
			s.Kpi[k] = formatRate(0, 0)
		}
		s.Kpi[KpiNbPodUsed] = "0"
		return
	}

	firstCreated, lastCreated := completed[0].CreatedAt, completed[0].CreatedAt
	firstStarted, lastEnded := completed[0].StartedAt, completed[0].EndedAt
	pods := make(map[string]struct{})
	for _, t := range completed {
		if t.CreatedAt.Before(firstCreated) {
			firstCreated = t.CreatedAt
		}
		if t.CreatedAt.After(lastCreated) {
			lastCreated = t.CreatedAt
		}
		if t.StartedAt.Before(firstStarted) {
			firstStarted = t.StartedAt
		}
		if t.EndedAt.After(lastEnded) {
			lastEnded = t.EndedAt
		}
		pods[t.OwnerPodID] = struct{}{}
	}

	inputKB := parseFloat(s.Kpi[KpiNbInputbytes]) / 1024.0
	outputKB := parseFloat(s.Kpi[KpiNbOutputbytes]) / 1024.0

	submit := lastCreated.Sub(start)
	s.Kpi[KpiTimeSubmittedTasks] = formatDuration(submit)
	s.Kpi[KpiTimeThroughputSubmission] = formatRate(count, submit)
	s.Kpi[KpiUploadSpeedKb] = formatRate(count*inputKB, submit)

	process := lastEnded.Sub(firstCreated)
	s.Kpi[KpiTimeProcessedTasks] = formatDuration(process)
	s.Kpi[KpiTimeThroughputProcess] = formatRate(count, process)

	retrieve := end.Sub(firstStarted)
	s.Kpi[KpiTimeRetrieveResults] = formatDuration(retrieve)
	s.Kpi[KpiTimeThroughputResults] = formatRate(count, retrieve)
	s.Kpi[KpiDownloadSpeedKb] = formatRate(count*outputKB, retrieve)

	s.Kpi[KpiNbPodUsed] = strconv.Itoa(len(pods))
}

// PrintToText 사람이 읽는 형식의 보고서입니다. 터미널이면 제목이 강조됩니다.
func (s *TasksStats) PrintToText() string {
	title := color.New(color.FgCyan, color.Bold).SprintFunc()
	section := color.New(color.Bold).SprintFunc()

	var sb strings.Builder
	line := func(label string, k KpiKey) {
		fmt.Fprintf(&sb, "%-35s: %s\n", label, s.Kpi[k])
	}

	sb.WriteString(title("========      Statistics and performance      ========") + "\n\n")

	sb.WriteString(section("-------- Submission buffer configuration --------------") + "\n")
	line("Max nb tasks per buffer", KpiTasksPerBuffer)
	line("Nb channel", KpiNbChannel)
	line("Nb concurrent buffer per channel", KpiNbConcurrentBufferPerChannel)
	sb.WriteString("\n")

	sb.WriteString(section("-------- Context of stressTests          --------------") + "\n")
	line("Nb Task received and completed", KpiCompletedTasks)
	line("Input bytes by payload", KpiNbInputbytes)
	line("Output bytes by result", KpiNbOutputbytes)
	line("Workload time per task (ms)", KpiTimeWorkloadInMs)
	sb.WriteString("\n")

	sb.WriteString(section("-------- Statistics of execution         --------------") + "\n")
	line("Time to Submit all Tasks", KpiTimeSubmittedTasks)
	line("Submission throughPut (tasks/s)", KpiTimeThroughputSubmission)
	line("Upload speed (KB/s)", KpiUploadSpeedKb)
	sb.WriteString("\n")
	line("Time to process all Tasks", KpiTimeProcessedTasks)
	line("Processing throughPut (tasks/s)", KpiTimeThroughputProcess)
	sb.WriteString("\n")
	line("Time to retrieve all results", KpiTimeRetrieveResults)
	line("Speed retrieving result (result/s)", KpiTimeThroughputResults)
	line("Download speed (KB/s)", KpiDownloadSpeedKb)
	sb.WriteString("\n")

	sb.WriteString(section("-------- Total user time end to end      --------------") + "\n")
	line("Number of pod used", KpiNbPodUsed)
	line("Total time", KpiTotalTime)

	return sb.String()
}

// PrintToJSON 지표를 {"TIME_THROUGHPUT_SUBMISSION": "..."} 형식의 JSON 파일로 기록합니다. 기존 파일은 덮어씁니다.
func (s *TasksStats) PrintToJSON(path string) error {
	out := make(map[string]string, len(s.Kpi))
	for k, v := range s.Kpi {
		out[k.String()] = v
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return apperrors.Wrap(err, apperrors.Internal, "통계 JSON 직렬화에 실패했습니다")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.Wrapf(err, apperrors.System, "통계 파일을 기록할 수 없습니다: '%s'", path)
	}
	return nil
}

// formatDuration hh:mm:ss.fff
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	sec := d / time.Second
	d -= sec * time.Second

	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, sec, d/time.Millisecond)
}

// formatRate 초당 처리량을 소수점 둘째 자리까지 표시합니다. 기간이 0이면 0.00입니다.
func formatRate(amount float64, d time.Duration) string {
	if d <= 0 {
		return "0.00"
	}
	return strconv.FormatFloat(amount/d.Seconds(), 'f', 2, 64)
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

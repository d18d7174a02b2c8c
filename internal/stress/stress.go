// Package stress 합성 연산 Task를 대량으로 제출하여 플랫폼의 처리량을 측정하는 스트레스 테스트 클라이언트입니다.
package stress

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/darkkaiser/armonik-samples/internal/config"
	"github.com/darkkaiser/armonik-samples/internal/payload"
	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/sdk"
	stresssvc "github.com/darkkaiser/armonik-samples/internal/sdk/service/stress"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	"github.com/darkkaiser/armonik-samples/pkg/cronx"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
	"golang.org/x/sync/errgroup"
)

const component = "stress.client"

// Options stressTest 명령의 인자입니다.
type Options struct {
	NbTask           int
	NbInputBytes     int64
	NbOutputBytes    int64
	WorkLoadTimeInMs int
	Partition        string
	Variation        int
	Distribution     Distribution
	JSONPath         string
}

// DefaultOptions 인자를 지정하지 않았을 때의 값입니다.
func DefaultOptions() Options {
	return Options{
		NbTask:           100,
		NbInputBytes:     512000,
		NbOutputBytes:    8,
		WorkLoadTimeInMs: 1,
		Distribution:     DistributionUniform,
	}
}

func (o Options) Validate() error {
	if o.NbTask <= 0 {
		return apperrors.Newf(apperrors.InvalidInput, "nbTask는 0보다 커야 합니다: %d", o.NbTask)
	}
	if o.NbInputBytes < payload.Float64Size {
		return apperrors.Newf(apperrors.InvalidInput, "nbInputBytes는 %d 이상이어야 합니다: %d", payload.Float64Size, o.NbInputBytes)
	}
	if o.NbOutputBytes < payload.Float64Size {
		return apperrors.Newf(apperrors.InvalidInput, "nbOutputBytes는 %d 이상이어야 합니다: %d", payload.Float64Size, o.NbOutputBytes)
	}
	return nil
}

// Report 스트레스 테스트 한 번의 결과입니다.
type Report struct {
	SessionID contract.SessionID
	Submitted int
	NbResults int
	NbErrors  int
	Total     float64
	Stats     *TasksStats
}

// resultHandler 반환된 벡터의 합을 누적합니다. 동시 접근은 lockedHandler로 보호합니다.
type resultHandler struct {
	nbResults int
	nbErrors  int
	total     float64
}

func (h *resultHandler) HandleResponse(value []byte, taskID contract.TaskID) {
	v, err := payload.DecodeVector(value)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"task_id": taskID,
			"error":   err,
		}).Warn("결과 데이터를 해석할 수 없습니다")
	} else if len(v) == 0 {
		applog.WithComponentAndFields(component, applog.Fields{"task_id": taskID}).Info("Task finished but nothing returned in Result")
	} else {
		h.total += payload.Sum(v)
	}
	h.nbResults++
}

func (h *resultHandler) HandleError(err error, taskID contract.TaskID) {
	h.nbErrors++

	fields := applog.Fields{"task_id": taskID, "error": err}
	if apperrors.Is(err, apperrors.Canceled) {
		applog.WithComponentAndFields(component, fields).Warn("Task가 취소되었습니다")
		return
	}
	applog.WithComponentAndFields(component, fields).Error("Task가 실패했습니다")
}

// Runner 세션 하나를 만들어 스트레스 테스트를 수행합니다.
type Runner struct {
	appConfig *config.AppConfig
	client    contract.Client

	// now 테스트에서 시간을 고정할 때 교체합니다.
	now func() time.Time
}

func NewRunner(appConfig *config.AppConfig, client contract.Client) *Runner {
	return &Runner{
		appConfig: appConfig,
		client:    client,
		now:       time.Now,
	}
}

// Properties 스트레스 워커 서비스(ServiceApps)를 호출하는 세션 설정입니다.
func (r *Runner) Properties(partition string) sdk.Properties {
	return sdk.NewProperties(r.appConfig, stresssvc.ServiceName).
		WithService(stresssvc.Namespace, stresssvc.ServiceName).
		WithPartition(partition)
}

// Run Task opts.NbTask개를 제출하고 모든 결과를 받은 뒤 지표를 계산합니다.
func (r *Runner) Run(ctx context.Context, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	session, err := sdk.NewSessionService(ctx, r.client, r.Properties(opts.Partition))
	if err != nil {
		return nil, err
	}

	stressConfig := r.appConfig.Stress
	generator := NewPayloadGenerator(opts.NbInputBytes, opts.Variation, opts.Distribution, nil)
	handler := &resultHandler{}

	applog.WithComponentAndFields(component, applog.Fields{
		"session_id":      session.SessionID(),
		"nb_task":         opts.NbTask,
		"payload_kb":      float64(opts.NbInputBytes) / 1024.0,
		"total_kb":        float64(int64(opts.NbTask)*opts.NbInputBytes) / 1024.0,
		"variation":       opts.Variation,
		"distribution":    opts.Distribution,
		"parallel_chan":   stressConfig.MaxParallelChannel,
		"tasks_per_buf":   stressConfig.MaxTasksPerBuffer,
		"concurrent_bufs": stressConfig.MaxConcurrentBuffer,
	}).Info("스트레스 테스트 시작")

	var submitted atomic.Int64
	var resultsMu sync.Mutex
	stopProgress, err := r.startProgress(stressConfig.ProgressSchedule, func() {
		resultsMu.Lock()
		nbResults := handler.nbResults + handler.nbErrors
		resultsMu.Unlock()

		applog.WithComponentAndFields(component, applog.Fields{
			"results":       nbResults,
			"submitted":     submitted.Load(),
			"all_submitted": submitted.Load() == int64(opts.NbTask),
		}).Info("스트레스 테스트 진행 상황")
	})
	if err != nil {
		return nil, err
	}
	defer stopProgress()

	start := r.now()

	if err := r.submitAll(ctx, session, generator, opts, lockedHandler{h: handler, mu: &resultsMu}, &submitted); err != nil {
		return nil, err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"submitted": submitted.Load(),
		"elapsed":   r.now().Sub(start),
	}).Info("모든 Task 제출 완료")

	if stats := generator.Statistics("Payload"); stats != "" {
		applog.WithComponent(component).Info(stats)
	}

	if err := session.WaitResults(ctx); err != nil {
		return nil, err
	}
	end := r.now()

	tasks, err := r.client.ListTasks(ctx, session.SessionID())
	if err != nil {
		return nil, err
	}

	stats := NewTasksStats(opts.NbTask, opts.NbInputBytes, opts.NbOutputBytes, opts.WorkLoadTimeInMs, stressConfig)
	stats.Compute(tasks, start, end)

	if opts.JSONPath != "" {
		if err := stats.PrintToJSON(opts.JSONPath); err != nil {
			return nil, err
		}
	}

	if err := session.CloseSession(ctx); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{"error": err}).Warn("세션 종료에 실패했습니다")
	}

	resultsMu.Lock()
	defer resultsMu.Unlock()

	applog.WithComponentAndFields(component, applog.Fields{
		"total":   handler.total,
		"results": handler.nbResults,
		"errors":  handler.nbErrors,
	}).Infof("Total result is %v", handler.total)

	return &Report{
		SessionID: session.SessionID(),
		Submitted: int(submitted.Load()),
		NbResults: handler.nbResults,
		NbErrors:  handler.nbErrors,
		Total:     handler.total,
		Stats:     stats,
	}, nil
}

// submitAll Task를 max_parallel_channel개의 채널로 나누어 병렬 제출합니다.
// 채널마다 max_tasks_per_buffer개 단위의 버퍼를 최대 max_concurrent_buffer개까지 동시에 제출합니다.
func (r *Runner) submitAll(ctx context.Context, session *sdk.SessionService, generator *PayloadGenerator, opts Options, handler sdk.ServiceInvocationHandler, submitted *atomic.Int64) error {
	stressConfig := r.appConfig.Stress

	g, gctx := errgroup.WithContext(ctx)
	for _, channel := range splitEven(opts.NbTask, stressConfig.MaxParallelChannel) {
		g.Go(func() error {
			var buffers errgroup.Group
			buffers.SetLimit(stressConfig.MaxConcurrentBuffer)

			for _, size := range splitBySize(channel, stressConfig.MaxTasksPerBuffer) {
				buffers.Go(func() error {
					payloads := make([]sdk.TaskPayload, 0, size)
					for range size {
						args := payload.ComputeArgs{
							Input:            generator.GeneratePayload(),
							NbOutputBytes:    opts.NbOutputBytes,
							WorkLoadTimeInMs: int32(opts.WorkLoadTimeInMs),
						}
						payloads = append(payloads, sdk.TaskPayload{
							MethodName: stresssvc.MethodComputeWorkLoad,
							Arguments:  args.Encode(),
						})
					}

					ids, err := session.Submit(gctx, payloads, handler)
					if err != nil {
						return err
					}
					submitted.Add(int64(len(ids)))
					return nil
				})
			}

			return buffers.Wait()
		})
	}

	return g.Wait()
}

// splitEven total을 최대한 고르게 parts개 이하의 조각으로 나눕니다.
func splitEven(total, parts int) []int {
	if total <= 0 || parts <= 0 {
		return nil
	}

	parts = min(parts, total)
	sizes := make([]int, parts)
	for i := range sizes {
		sizes[i] = total / parts
		if i < total%parts {
			sizes[i]++
		}
	}
	return sizes
}

// splitBySize total을 최대 size 크기의 조각으로 나눕니다.
func splitBySize(total, size int) []int {
	if total <= 0 || size <= 0 {
		return nil
	}

	sizes := make([]int, 0, (total+size-1)/size)
	for total > 0 {
		n := min(size, total)
		sizes = append(sizes, n)
		total -= n
	}
	return sizes
}

// startProgress spec 주기로 report를 실행하는 스케줄러를 시작하고, 정지 함수를 반환합니다.
func (r *Runner) startProgress(spec string, report func()) (func(), error) {
	c := cronx.New()
	if _, err := c.AddFunc(spec, report); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.InvalidInput, "진행 상황 보고 주기가 올바르지 않습니다: '%s'", spec)
	}
	c.Start()

	return func() { <-c.Stop().Done() }, nil
}

// lockedHandler 진행 상황 보고와 결과 집계가 같은 카운터를 보도록 잠금을 겁니다.
type lockedHandler struct {
	h  *resultHandler
	mu *sync.Mutex
}

func (l lockedHandler) HandleResponse(value []byte, taskID contract.TaskID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.h.HandleResponse(value, taskID)
}

func (l lockedHandler) HandleError(err error, taskID contract.TaskID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.h.HandleError(err, taskID)
}

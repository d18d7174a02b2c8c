// Command stress-client 합성 부하 Task를 대량으로 제출하고 처리 성능 통계를 출력합니다.
//
//	stress-client stressTest --nbTask 1000 --nbInputBytes 64000 --workLoadTimeInMs 10 --json stats.json
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/darkkaiser/armonik-samples/internal/bootstrap"
	"github.com/darkkaiser/armonik-samples/internal/cluster"
	"github.com/darkkaiser/armonik-samples/internal/stress"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
	"github.com/spf13/cobra"
)

const (
	appName   = "stress-client"
	component = "stress.cmd"
)

// runFunc stressTest 명령이 해석한 인자로 실제 테스트를 수행합니다.
type runFunc func(ctx context.Context, opts stress.Options) error

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(runStressTest).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(run runFunc) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "ArmoniK 스트레스 테스트 클라이언트",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newStressTestCmd(run))
	return rootCmd
}

func newStressTestCmd(run runFunc) *cobra.Command {
	opts := stress.DefaultOptions()
	var distribution string

	cmd := &cobra.Command{
		Use:   "stressTest",
		Short: "합성 부하 Task를 제출하고 처리 성능을 측정합니다",
		Long: `입력 벡터(nbInputBytes)와 부하 시간(workLoadTimeInMs)을 가진 Task를 nbTask개 제출하고,
모든 결과를 받은 뒤 제출/처리/수신 처리량 통계를 출력합니다.

variation을 지정하면 페이로드 크기가 기준 크기에서 ±variation% 범위로 흔들리며,
distribution으로 그 분포(uniform, gaussian, exponential)를 고를 수 있습니다.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Distribution = stress.ParseDistribution(distribution)
			if err := opts.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.NbTask, "nbTask", opts.NbTask, "제출할 Task 수")
	flags.Int64Var(&opts.NbInputBytes, "nbInputBytes", opts.NbInputBytes, "Task 하나의 입력 크기(byte)")
	flags.Int64Var(&opts.NbOutputBytes, "nbOutputBytes", opts.NbOutputBytes, "Task 하나의 출력 크기(byte)")
	flags.IntVar(&opts.WorkLoadTimeInMs, "workLoadTimeInMs", opts.WorkLoadTimeInMs, "Task 하나의 연산 시간(ms)")
	flags.StringVar(&opts.Partition, "partition", opts.Partition, "Task를 제출할 파티션 (빈 값: 설정의 partition_id)")
	flags.IntVar(&opts.Variation, "variation", opts.Variation, "페이로드 크기 변동 폭(%, 0~100)")
	flags.StringVar(&distribution, "distribution", string(opts.Distribution), "페이로드 크기 분포 (uniform, gaussian, exponential)")
	flags.StringVar(&opts.JSONPath, "json", opts.JSONPath, "통계를 기록할 JSON 파일 경로")

	return cmd
}

func runStressTest(ctx context.Context, opts stress.Options) error {
	appConfig, appLogCloser, err := bootstrap.Init(appName, bootstrap.KindClient)
	if err != nil {
		return err
	}
	defer appLogCloser.Close()

	if opts.JSONPath == "" {
		opts.JSONPath = appConfig.Stress.ReportJSONPath
	}

	client, closeClient, err := cluster.Connect(appConfig)
	if err != nil {
		return err
	}
	defer closeClient()

	report, err := stress.NewRunner(appConfig, client).Run(ctx, opts)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{"error": err}).Error("스트레스 테스트 실패")
		return err
	}

	fmt.Print(report.Stats.PrintToText())

	if report.NbErrors > 0 {
		return fmt.Errorf("%d개의 Task가 실패했습니다", report.NbErrors)
	}
	return nil
}

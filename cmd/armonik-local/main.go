// Command armonik-local 컨트롤 플레인(HTTP)과 워커를 하나의 프로세스로 실행하는 로컬 플랫폼입니다.
//
// 샘플 클라이언트는 control_plane.endpoint를 이 프로세스의 주소로 지정하면 원격 플랫폼처럼 접속합니다.
package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/darkkaiser/armonik-samples/internal/bootstrap"
	"github.com/darkkaiser/armonik-samples/internal/cluster"
	"github.com/darkkaiser/armonik-samples/internal/pkg/version"
	_ "github.com/darkkaiser/armonik-samples/internal/sdk/service/hello"
	_ "github.com/darkkaiser/armonik-samples/internal/sdk/service/stress"
	_ "github.com/darkkaiser/armonik-samples/internal/service/worker/helloworld"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
)

const appName = "armonik-local"

const banner = `
     _                                _  _  __      _                        _
    / \    _ __  _ __ ___    ___   _ __ (_)| |/ /     | |     ___    ___   __ _ | |
   / _ \  | '__|| '_ ' _ \  / _ \ | '_ \| || ' /_____ | |    / _ \  / __| / _' || |
  / ___ \ | |   | | | | | || (_) || | | | || . \_____|| |___| (_) || (__ | (_| || |
 /_/   \_\|_|   |_| |_| |_| \___/ |_| |_|_||_|\_\     |_____|\___/  \___| \__,_||_|
                                                                            %s
--------------------------------------------------------------------------------
`

func main() {
	appConfig, appLogCloser, err := bootstrap.Init(appName, bootstrap.KindServer)
	if err != nil {
		bootstrap.Fatal(err)
	}
	defer appLogCloser.Close()

	bootstrap.PrintBanner(os.Stdout, banner)

	c := cluster.New(appConfig, cluster.WithAPI(version.Get()))

	serviceStopCtx, cancel := context.WithCancel(context.Background())
	serviceStopWG := &sync.WaitGroup{}

	if err := c.Start(serviceStopCtx, serviceStopWG); err != nil {
		cancel() // 이미 시작된 서비스들도 종료
		serviceStopWG.Wait()

		applog.StandardLogger().Fatal("서비스 초기화 실패로 프로그램을 종료합니다")
	}

	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)

	applog.WithComponentAndFields("main", applog.Fields{
		"address": c.APIAddr(),
	}).Info("서버 가동 완료")

	<-termC

	applog.WithComponent("main").Info("종료 시그널 수신: 서비스를 종료합니다")
	cancel()
	serviceStopWG.Wait()
}

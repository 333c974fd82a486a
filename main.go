// 命令行入口：
// - 解析 flags 与 settings.yaml
// - 初始化日志、HTTP 客户端、数据库
// - 执行一轮调和（进程由外部定时器按周期拉起，运行完即退出）
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"go-cat-alert/internal/alert"
	"go-cat-alert/internal/config"
	"go-cat-alert/internal/fetch"
	"go-cat-alert/internal/logx"
	"go-cat-alert/internal/reconcile"
	"go-cat-alert/internal/store"
)

const banner = `
  /$$$$$$   /$$$$$$  /$$$$$$$$
 /$$__  $$ /$$__  $$|__  $$__/
| $$  \__/| $$  \ $$   | $$
| $$      | $$$$$$$$   | $$
| $$      | $$__  $$   | $$
| $$    $$| $$  | $$   | $$
|  $$$$$$/| $$  | $$   | $$
 \______/ |__/  |__/   |__/`

func main() {
	var (
		configPath = flag.String("config", "settings.yaml", "path to settings.yaml")
		verbose    = flag.Bool("verbose", false, "force debug log level")
		dry        = flag.Bool("dry", false, "fetch and print the current listing, no db writes or alerts")
	)
	flag.Parse()

	// 1) 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// 2) 初始化日志：级别/格式/语言/颜色（-verbose 强制 debug）
	level := cfg.LogLevel
	if *verbose {
		level = "debug"
	}
	logx.Init(level, cfg.LogFormat, cfg.LogLocale, cfg.LogColor)
	logx.Infof("%s", banner)
	logx.Infof("猫咪上新提醒启动，监控页面：%s", cfg.TrackingURL)
	logx.Debugf("配置加载完成：%+v", *cfg)

	// 3) 初始化 HTTP 客户端（超时与固定间隔重试）
	cl := fetch.New(fetch.Options{
		Timeout:    cfg.Timeout(),
		Attempts:   cfg.FetchAttempts,
		RetryDelay: cfg.RetryDelay(),
	})

	ctx := context.Background()
	if *dry {
		// 4) 调试：只抓取并打印当前清单，不落库不通知
		run := reconcile.New(cfg, nil, cl, nil)
		cats, ok := run.Current(ctx)
		if !ok {
			os.Exit(1)
		}
		for _, c := range cats {
			logx.Infof("\n%s", c)
		}
		return
	}

	// 5) 打开并初始化数据库（结构漂移时整表重建）
	st := store.Open(cfg.Database.Dir, cfg.Database.Name)
	if err := st.Init(ctx); err != nil {
		log.Fatalf("init db: %v", err)
	}
	defer st.Close()

	// 6) 执行一轮调和
	run := reconcile.New(cfg, st, cl, alert.LogNotifier{})
	outcome, err := run.Run(ctx)
	if err != nil {
		logx.Errorf("运行失败：%v", err)
		os.Exit(1)
	}
	if outcome == reconcile.SkippedNoData {
		// 抓取耗尽按"本轮无数据"处理，交给下次调度重试
		logx.Warnf("本轮未取到数据，等待下次调度")
	}
}

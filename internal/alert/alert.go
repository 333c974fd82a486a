// 包 alert 定义通知事件的投递契约：
// 上新与下架各一个事件，载荷为完整记录；
// 具体送达渠道（推送/邮件等）由实现方决定，核心只负责触发。
package alert

import (
	"go-cat-alert/internal/logx"
	"go-cat-alert/internal/model"
)

// Notifier 由调和器在差异非空时调用；通过显式注入传入，
// 而非进程级发布订阅。实现不应长时间阻塞。
type Notifier interface {
	CatsAdded(cats []model.Cat)
	CatsRemoved(cats []model.Cat)
}

// LogNotifier 把事件写入日志，作为默认实现，也便于人工核对。
type LogNotifier struct{}

func (LogNotifier) CatsAdded(cats []model.Cat) {
	logx.Infof("发现 %d 只新上架的猫咪！", len(cats))
	for _, c := range cats {
		logx.Infof("新上架：\n%s", c)
	}
}

func (LogNotifier) CatsRemoved(cats []model.Cat) {
	logx.Infof("%d 只猫咪已下架（可能被领养）", len(cats))
	for _, c := range cats {
		logx.Infof("已下架：\n%s", c)
	}
}

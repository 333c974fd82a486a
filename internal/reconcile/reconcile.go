// 包 reconcile 负责主流程编排：
// - 抓取并解析当前在架清单
// - 与库中上一轮清单按编号求差
// - 触发上新/下架通知并把差异落库
package reconcile

import (
	"context"
	"fmt"

	"go-cat-alert/internal/alert"
	"go-cat-alert/internal/config"
	"go-cat-alert/internal/fetch"
	"go-cat-alert/internal/logx"
	"go-cat-alert/internal/model"
	"go-cat-alert/internal/scrape"
	"go-cat-alert/internal/store"
)

// Outcome 为单轮执行的终态。
type Outcome int

const (
	// Completed 表示完整走完 抓取→比对→通知→落库。
	Completed Outcome = iota
	// SkippedNoData 表示抓取重试耗尽，本轮放弃：不动库、不发通知。
	SkippedNoData
)

// Runner 调和执行器，持有配置/存储/HTTP 客户端/通知器。
// 设计为单轮同步执行，同一时刻只有一轮在跑，无需加锁。
type Runner struct {
	cfg    *config.Config
	store  *store.DB
	fetch  *fetch.Client
	notify alert.Notifier
}

// New 创建 Runner。
func New(cfg *config.Config, s *store.DB, cl *fetch.Client, n alert.Notifier) *Runner {
	return &Runner{cfg: cfg, store: s, fetch: cl, notify: n}
}

// Run 执行一轮调和。差集必须基于本轮任何写入之前的库状态计算；
// 通知先于落库触发，中途失败宁可下轮重发也不丢事件。
func (r *Runner) Run(ctx context.Context) (Outcome, error) {
	cats, ok := r.Current(ctx)
	if !ok {
		return SkippedNoData, nil
	}

	currIDs := idSet(cats)
	prevIDs := r.store.IDs(ctx)

	addedIDs := diff(currIDs, prevIDs)
	removedIDs := diff(prevIDs, currIDs)
	logx.Infof("比对完成：在架=%d 上新=%d 下架=%d", len(currIDs), len(addedIDs), len(removedIDs))

	if len(addedIDs) > 0 {
		// 上新记录直接取自本轮解析结果，不回查数据库
		added := make([]model.Cat, 0, len(addedIDs))
		for _, c := range cats {
			if _, ok := addedIDs[c.ID]; ok {
				added = append(added, c)
			}
		}
		r.notify.CatsAdded(added)
	}
	if len(removedIDs) > 0 {
		// 下架记录已不在页面上，只能从库里取
		r.notify.CatsRemoved(r.store.CatsByID(ctx, removedIDs))
	}

	if err := r.store.Upsert(ctx, cats); err != nil {
		return Completed, fmt.Errorf("persist cats: %w", err)
	}
	if err := r.store.Delete(ctx, removedIDs); err != nil {
		return Completed, fmt.Errorf("delete removed: %w", err)
	}
	return Completed, nil
}

// Current 抓取并解析当前在架清单；抓取重试耗尽时返回 ok=false。
// 编号为空的记录无法参与比对，剔除并在 debug 级别留痕。
func (r *Runner) Current(ctx context.Context) ([]model.Cat, bool) {
	logx.Infof("开始抓取在架清单：%s", r.cfg.TrackingURL)
	html, err := r.fetch.ListingHTML(ctx, r.cfg.TrackingURL)
	if err != nil {
		logx.Errorf("抓取在架清单失败，本轮跳过：%v", err)
		return nil, false
	}
	cats := scrape.Listing(html, r.cfg.BaseURL)
	valid := make([]model.Cat, 0, len(cats))
	for _, c := range cats {
		if c.ID == "" {
			logx.Debugf("忽略无编号的记录：name=%q", c.Name)
			continue
		}
		logx.Debugf("解析到猫咪：\n%s", c)
		valid = append(valid, c)
	}
	logx.Infof("解析到 %d 只在架猫咪", len(valid))
	return valid, true
}

// idSet 抽取记录切片的编号集合（同编号后者覆盖前者）。
func idSet(cats []model.Cat) map[string]struct{} {
	ids := make(map[string]struct{}, len(cats))
	for _, c := range cats {
		ids[c.ID] = struct{}{}
	}
	return ids
}

// diff 返回 a 中有而 b 中没有的编号。
func diff(a, b map[string]struct{}) map[string]struct{} {
	out := map[string]struct{}{}
	for id := range a {
		if _, ok := b[id]; !ok {
			out[id] = struct{}{}
		}
	}
	return out
}

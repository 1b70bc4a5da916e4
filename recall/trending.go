package recall

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/rushteam/feedkit/core"
)

// Trending 是全局热门召回源，两种用途：
//   - 冷启动兜底：个性化召回源凑不够时补一路热门
//   - popular pool：与个性化候选按比例混合（Mixer 负责配比），
//     短视频 feed 场景下可选只保留短时长条目
type Trending struct {
	Catalog core.CatalogService

	// Cap 最多取多少条，0 表示不截断
	Cap int

	// ShortOnly 为 true 时只保留时长 ≤ MaxSeconds 的条目
	ShortOnly bool

	// MaxSeconds 短视频时长阈值（秒），默认 60
	MaxSeconds int
}

func (r *Trending) Name() string { return "recall.trending" }

func (r *Trending) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil {
		return nil, nil
	}

	videos, err := r.Catalog.Recommended(ctx)
	if err != nil {
		return nil, nil
	}

	if r.ShortOnly {
		maxSec := r.MaxSeconds
		if maxSec <= 0 {
			maxSec = 60
		}
		kept := make([]*core.Video, 0, len(videos))
		for _, v := range videos {
			if v == nil {
				continue
			}
			sec, ok := durationSeconds(v)
			if ok && sec <= maxSec {
				kept = append(kept, v)
			}
		}
		videos = kept
	}

	return wrapVideos(videos, r.Cap), nil
}

var isoDurationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// durationSeconds 解析视频时长（秒）。优先 ISO-8601（"PT1M30S"），
// 其次展示字符串（"12:34" / "1:02:34"）。两者都没有时返回 false。
func durationSeconds(v *core.Video) (int, bool) {
	if v.ISODuration != "" {
		if m := isoDurationRe.FindStringSubmatch(v.ISODuration); m != nil {
			h, _ := strconv.Atoi(m[1])
			min, _ := strconv.Atoi(m[2])
			s, _ := strconv.Atoi(m[3])
			return h*3600 + min*60 + s, true
		}
	}
	if v.Duration != "" {
		parts := strings.Split(strings.TrimSpace(v.Duration), ":")
		if len(parts) >= 2 && len(parts) <= 3 {
			total := 0
			for _, p := range parts {
				n, err := strconv.Atoi(strings.TrimSpace(p))
				if err != nil {
					return 0, false
				}
				total = total*60 + n
			}
			return total, true
		}
	}
	return 0, false
}

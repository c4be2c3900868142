// Package insight produces whole-conversation analyses, asking the configured
// provider first and falling back to local statistics.
package insight

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/zhouzirui/z-counsel/backend/internal/analysis/emotion"
	"github.com/zhouzirui/z-counsel/backend/internal/model/chat"
	"github.com/zhouzirui/z-counsel/backend/internal/service/ai"
)

// Report sources.
const (
	SourceAI    = "ai"
	SourceLocal = "local"
)

const (
	topThemes      = 5
	minTrendTurns  = 3
	defaultTimeout = 20 * time.Second
)

// Config 控制分析服务的行为。
type Config struct {
	Enabled bool
	Timeout time.Duration
}

// Service builds ConversationReports. The zero value only produces local
// reports.
type Service struct {
	enabled   bool
	generator ai.Generator
	timeout   time.Duration
}

// NewService 创建分析服务。generator 为空时只使用本地统计。
func NewService(generator ai.Generator, cfg Config) *Service {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Service{
		enabled:   cfg.Enabled && generator != nil,
		generator: generator,
		timeout:   timeout,
	}
}

// Enabled reports whether provider analysis is attempted.
func (s *Service) Enabled() bool {
	return s != nil && s.enabled
}

// Report analyses turns. It never fails; provider errors degrade to the
// local report.
func (s *Service) Report(ctx context.Context, turns []chat.Turn) chat.ConversationReport {
	report := chat.ConversationReport{
		TurnCount:  len(turns),
		Themes:     ThemeCounts(turns),
		Sentiments: SentimentCounts(turns),
		Source:     SourceLocal,
	}

	if s.Enabled() && len(turns) > 0 {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		text, err := s.generator.Generate(callCtx, ai.AnalysisPrompt(turns))
		if err == nil {
			report.Text = text
			report.Source = SourceAI
			return report
		}
		log.Printf("[insight] %s analysis failed, use local: %v", s.generator.Name(), err)
	}

	report.Text = localText(report)
	return report
}

// ThemeCounts counts turns per category, most frequent first. Ties keep the
// category display order.
func ThemeCounts(turns []chat.Turn) []chat.ThemeCount {
	counts := make(map[emotion.Category]int)
	for _, t := range turns {
		for c := range t.Keywords {
			counts[c]++
		}
	}

	out := make([]chat.ThemeCount, 0, len(counts))
	for _, c := range emotion.Categories {
		if n := counts[c]; n > 0 {
			out = append(out, chat.ThemeCount{Category: c, Name: emotion.DisplayName(c), Count: n})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// SentimentCounts tallies turn sentiments.
func SentimentCounts(turns []chat.Turn) map[emotion.Sentiment]int {
	counts := map[emotion.Sentiment]int{
		emotion.Positive: 0,
		emotion.Neutral:  0,
		emotion.Negative: 0,
	}
	for _, t := range turns {
		if t.Analysis.Sentiment != "" {
			counts[t.Analysis.Sentiment]++
		}
	}
	return counts
}

// Trend summarises the sentiment balance in one sentence.
func Trend(sentiments map[emotion.Sentiment]int) string {
	pos, neu, neg := sentiments[emotion.Positive], sentiments[emotion.Neutral], sentiments[emotion.Negative]
	switch {
	case pos+neu+neg < minTrendTurns:
		return "분석을 위한 데이터가 부족합니다."
	case neg > pos+neu:
		return "최근 대화에서 부정적인 감정이 지속적으로 나타나고 있습니다."
	case pos > neg+neu:
		return "최근 대화에서 긍정적인 감정이 증가하는 경향을 보입니다."
	default:
		return "감정 상태가 변화하며 안정적인 패턴을 유지하고 있습니다."
	}
}

func localText(report chat.ConversationReport) string {
	var b strings.Builder
	b.WriteString("## 주요 발견사항\n\n")
	if len(report.Themes) > 0 {
		top := report.Themes[0]
		fmt.Fprintf(&b, "가장 자주 언급된 주제는 %q입니다 (%d회).\n", top.Name, top.Count)
		if len(report.Themes) > 1 {
			limit := min(len(report.Themes), topThemes)
			names := make([]string, 0, limit)
			for _, th := range report.Themes[:limit] {
				names = append(names, fmt.Sprintf("%s %d회", th.Name, th.Count))
			}
			fmt.Fprintf(&b, "함께 나타난 주제: %s\n", strings.Join(names, ", "))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## 감정 패턴\n\n%s\n\n", Trend(report.Sentiments))

	b.WriteString("## 권장사항\n\n")
	b.WriteString("- 지속적인 자기 관찰과 감정 인식\n")
	b.WriteString("- 필요시 전문가 상담 고려\n")
	b.WriteString("- 규칙적인 자기 돌봄 실천\n")
	return b.String()
}

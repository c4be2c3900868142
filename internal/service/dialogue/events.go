package dialogue

import (
	"time"

	"github.com/zhouzirui/z-counsel/backend/internal/model/chat"
)

var (
	welcomeOptions      = []string{"자유 대화 상담", "표준 심리검사"}
	conversationOptions = []string{"기분이 좋지 않아요", "요즘 힘든 일이 많아요", "스트레스를 많이 받고 있어요", "누군가와 이야기하고 싶어요"}
	descriptionOptions  = []string{"우울감이 지속되고 있어요", "불안하고 걱정이 많아요", "스트레스가 심해요", "전반적으로 힘들어요"}
	suggestionOptions   = []string{"네, 검사를 받아보겠습니다", "아니요, 대화를 계속하겠습니다", "나중에 받아보겠습니다"}
	retakeOptions       = []string{"네, 진행하겠습니다", "아니요, 다음에 하겠습니다"}
	followUpOptions     = []string{"대화 상담을 계속하겠습니다", "다른 검사도 받아보고 싶어요", "결과에 대해 더 알고 싶어요", "상담을 종료하겠습니다"}
)

// batch collects the events produced by one call, stamped with one clock
// reading.
type batch struct {
	at     time.Time
	events []chat.Event
}

func (d *Dialogue) batch() *batch {
	return &batch{at: d.now().UTC()}
}

func (b *batch) add(e chat.Event) {
	e.Timestamp = b.at
	b.events = append(b.events, e)
}

func (b *batch) notice(text string) {
	b.add(chat.Event{Type: chat.EventSystemNotice, Text: text})
}

func (b *batch) bot(text string, options ...string) {
	b.add(chat.Event{Type: chat.EventBotMessage, Text: text, Options: options})
}

package anonymize

import (
	"strings"
	"testing"
)

func TestTextMasksPII(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"name with honorific", "김철수씨가 도와줬어요", "[NAME]씨가 도와줬어요"},
		{"name with spaced honorific", "오늘 홍길동 님을 만났어요", "오늘 [NAME] 님을 만났어요"},
		{"phone", "연락처는 010-1234-5678 입니다", "연락처는 [PHONE] 입니다"},
		{"email", "메일은 someone@example.com 이에요", "메일은 [EMAIL] 이에요"},
		{"national id", "번호 900101-1234567", "번호 [ID]"},
		{"plain", "그냥 힘든 하루였어요", "그냥 힘든 하루였어요"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Text(tc.in); got != tc.want {
				t.Fatalf("Text(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTextIsIdempotent(t *testing.T) {
	inputs := []string{
		"김철수씨 010-1234-5678 a.b@c.io 900101-1234567",
		"가나님다라씨",
		"010-1234-5678.someone@example.com",
		"[NAME]씨와 [PHONE]",
		"선생님 박영희 님 이메일 x@y.kr",
		strings.Repeat("가나다님", 5),
	}
	for _, in := range inputs {
		once := Text(in)
		if twice := Text(once); twice != once {
			t.Fatalf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

package extract

import (
	"reflect"
	"testing"
)

func TestCall(t *testing.T) {
	cases := []struct {
		in   string
		mins int
		ok   bool
	}{
		{"Started a call that lasted 125 minutes.", 125, true},
		{"Started a call that lasted 1 minute.", 1, true},
		{"Started a call that lasted 1 minutes.", 1, true},
		{"Started a call that lasted 0 minutes.", 0, true},
		{"Started a call that lasted five minutes.", 0, false},
		{"Started a call that lasted 12 minutes", 0, false},
		{" Started a call that lasted 12 minutes.", 0, false},
		{"Started a call that lasted  minutes.", 0, false},
		{"Started a call that lasted 12 hours.", 0, false},
		{"hello", 0, false},
	}
	for _, c := range cases {
		mins, ok := Call(c.in)
		if ok != c.ok || mins != c.mins {
			t.Fatalf("Call(%q) = %d,%v want %d,%v", c.in, mins, ok, c.mins, c.ok)
		}
	}
}

func TestCallBucket(t *testing.T) {
	if got := CallBucket(125); got != "2–4h" {
		t.Fatalf("125 minutes landed in %q", got)
	}
	edges := map[int]string{0: "< 5m", 4: "< 5m", 5: "5–15m", 15: "15–30m", 30: "30m–1h", 60: "1–2h", 119: "1–2h", 120: "2–4h", 239: "2–4h", 240: "4h+"}
	for m, want := range edges {
		if got := CallBucket(m); got != want {
			t.Fatalf("CallBucket(%d)=%q want %q", m, got, want)
		}
	}
}

func TestReactions(t *testing.T) {
	got := Reactions("😀 (3), 👍 (1)")
	want := []Reaction{{Name: "😀", Count: 3}, {Name: "👍", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v", got)
	}
}

func TestReactionsMalformedPortionsSkipped(t *testing.T) {
	got := Reactions("oops, 🔥 (2), broken (x), party parrot (10)")
	want := []Reaction{{Name: "🔥", Count: 2}, {Name: "party parrot", Count: 10}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v", got)
	}
	if r := Reactions(""); len(r) != 0 {
		t.Fatalf("expected nothing from empty annotation, got %+v", r)
	}
	if r := Reactions(" (4)"); len(r) != 0 {
		t.Fatalf("blank names must be dropped, got %+v", r)
	}
}

func TestReactionsShortestName(t *testing.T) {
	got := Reactions("a (1) b (2)")
	want := []Reaction{{Name: "a", Count: 1}, {Name: "b", Count: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v", got)
	}
	got = Reactions("x (y) (3)")
	if len(got) != 1 || got[0].Name != "x (y)" || got[0].Count != 3 {
		t.Fatalf("got %+v", got)
	}
}

func TestEmojis(t *testing.T) {
	got := Emojis("hi <:pog:123> and <:kek:9><:bad:x> <:<:ok:1>")
	var names []string
	for _, e := range got {
		names = append(names, e.Name)
	}
	if !reflect.DeepEqual(names, []string{"pog", "kek", "ok"}) {
		t.Fatalf("got %v", names)
	}
	if got[0].ID != "123" {
		t.Fatalf("id %q", got[0].ID)
	}
	if len(Emojis("<a:anim:1> <::1>")) != 0 {
		t.Fatalf("animated or nameless tokens must not match")
	}
}

func TestSticker(t *testing.T) {
	label, ok := Sticker("[Wave](https://media.discordapp.net/stickers/123.png)")
	if !ok || label != "Wave" {
		t.Fatalf("got %q %v", label, ok)
	}
	if _, ok := Sticker("[](https://media.discordapp.net/stickers/1.png)"); ok {
		t.Fatalf("empty label must not match")
	}
	if label, ok := Sticker("[a[](https://media.discordapp.net/stickers/1.png)"); !ok || label != "a[" {
		t.Fatalf("got %q %v", label, ok)
	}
	if _, ok := Sticker("https://media.discordapp.net/stickers/1.png"); ok {
		t.Fatalf("bare link must not match")
	}
}

func TestMediaAndVoice(t *testing.T) {
	voice := []string{"https://cdn.discordapp.com/attachments/1/voice-message.ogg"}
	if HasMedia("", voice) {
		t.Fatalf("voice notes are not media")
	}
	if !HasVoice(voice) {
		t.Fatalf("expected voice")
	}
	if !HasMedia("", append(voice, "https://cdn/x.png")) {
		t.Fatalf("non-voice attachment is media")
	}
	if !HasMedia("see http://example.com", nil) {
		t.Fatalf("links are media")
	}
	if HasMedia("plain", nil) {
		t.Fatalf("plain text is not media")
	}
}

func TestSplitAttachments(t *testing.T) {
	got := SplitAttachments(" a.png, ,b.ogg ")
	if !reflect.DeepEqual(got, []string{"a.png", "b.ogg"}) {
		t.Fatalf("got %v", got)
	}
	if SplitAttachments("  ") != nil {
		t.Fatalf("blank field should yield nil")
	}
}

func TestWordsAndTokens(t *testing.T) {
	content := "  Hello THERE, check https://x.com/a?b it's <:pog:1> Pizza pizza don't 'quoted' abc123 ok  "
	if got := WordCount(content); got != 12 {
		t.Fatalf("word count %d", got)
	}
	got := Tokens(content)
	want := []string{"hello", "check", "pizza", "pizza", "quoted"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tokens %v", got)
	}
	if WordCount("") != 0 {
		t.Fatalf("empty content has no words")
	}
}

func TestStripHelpers(t *testing.T) {
	if got := StripURLs("a https://x.y/z b http://q"); got != "a  b " {
		t.Fatalf("got %q", got)
	}
	if got := StripEmojis("x<:a:1>y<:b:2>"); got != "xy" {
		t.Fatalf("got %q", got)
	}
}

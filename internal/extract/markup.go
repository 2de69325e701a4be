package extract

import "strings"

const (
	stickerLink = "](https://media.discordapp.net/stickers/"
	voiceMarker = "voice-message.ogg"
)

// Span locates a match inside the scanned text.
type Span struct {
	Start, End int
}

// Emoji is one inline custom emoji token.
type Emoji struct {
	Name string
	ID   string
	Span Span
}

// Emojis finds every custom emoji token of the form
//
//	"<:" name ":" digit+ ">"
//
// where name is at least one character and contains no ':'.
func Emojis(content string) []Emoji {
	var out []Emoji
	i := 0
	for {
		k := strings.Index(content[i:], "<:")
		if k < 0 {
			return out
		}
		start := i + k
		if e, ok := emojiAt(content, start); ok {
			out = append(out, e)
			i = e.Span.End
			continue
		}
		i = start + 1
	}
}

func emojiAt(s string, start int) (Emoji, bool) {
	i := start + 2
	colon := strings.IndexByte(s[i:], ':')
	if colon <= 0 {
		return Emoji{}, false
	}
	name := s[i : i+colon]
	i += colon + 1
	idStart := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == idStart || i >= len(s) || s[i] != '>' {
		return Emoji{}, false
	}
	return Emoji{Name: name, ID: s[idStart:i], Span: Span{Start: start, End: i + 1}}, true
}

// Sticker reports whether content links a sticker:
//
//	"[" label "](https://media.discordapp.net/stickers/"
//
// label is non-empty and contains no ']'. The first sticker label found is
// returned.
func Sticker(content string) (label string, ok bool) {
	from := 0
	for {
		k := strings.Index(content[from:], stickerLink)
		if k < 0 {
			return "", false
		}
		p := from + k
		head := content[:p]
		open := strings.LastIndexByte(head, ']') + 1
		if lb := strings.IndexByte(head[open:], '['); lb >= 0 && p-(open+lb) > 1 {
			return head[open+lb+1:], true
		}
		from = p + 1
	}
}

// IsVoice reports whether an attachment reference is a voice note.
func IsVoice(attachment string) bool {
	return strings.Contains(attachment, voiceMarker)
}

// HasMedia reports whether a message carries media or a link: any attachment
// that is not a voice note, or an http(s) URL in the text.
func HasMedia(content string, attachments []string) bool {
	for _, a := range attachments {
		if strings.TrimSpace(a) != "" && !IsVoice(a) {
			return true
		}
	}
	return strings.Contains(content, "http://") || strings.Contains(content, "https://")
}

// HasVoice reports whether any attachment is a voice note.
func HasVoice(attachments []string) bool {
	for _, a := range attachments {
		if IsVoice(a) {
			return true
		}
	}
	return false
}

// SplitAttachments turns the comma separated export field into references.
func SplitAttachments(field string) []string {
	if strings.TrimSpace(field) == "" {
		return nil
	}
	parts := strings.Split(field, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

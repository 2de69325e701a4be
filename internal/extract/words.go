package extract

import (
	"strings"
	"unicode"
)

// StopWords are dropped from the word frequency table.
var StopWords = func() map[string]struct{} {
	words := []string{
		"the", "and", "to", "i", "a", "of", "it", "in", "you", "is", "for", "that",
		"my", "on", "me", "we", "this", "with", "so", "be", "but", "was", "have",
		"not", "your", "like", "just", "are", "do", "im", "can", "what", "if", "all",
		"get", "out", "about", "when", "know", "up", "how", "they", "as", "at",
		"it's", "i'm", "don't", "dont", "or", "from", "no", "he", "she", "would",
		"got", "too", "ur", "u", "its", "that's", "then", "there", "were", "been",
		"will", "going", "really", "some", "because", "cuz", "cause", "https",
		"http", "com", "www", "net", "org", "png", "jpg", "jpeg", "gif", "mp4",
		"mov", "webp", "discordapp", "cdn",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

// WordCount is the number of whitespace separated words in content.
func WordCount(content string) int {
	return len(strings.Fields(content))
}

// Tokens returns the words of content that count toward word frequency.
//
// URLs ("http://" or "https://" up to the next whitespace) and custom emoji
// tokens are removed first. The rest is lower-cased and split into maximal
// runs of [a-z0-9_']. A run is a token when it is made of letters and
// apostrophes only; surrounding apostrophes are trimmed. Tokens of two
// characters or fewer and stop words are dropped.
func Tokens(content string) []string {
	clean := strings.ToLower(StripEmojis(StripURLs(content)))
	var out []string
	i := 0
	for i < len(clean) {
		if !isWordByte(clean[i]) {
			i++
			continue
		}
		j := i
		alpha := true
		for j < len(clean) && isWordByte(clean[j]) {
			if c := clean[j]; (c < 'a' || c > 'z') && c != '\'' {
				alpha = false
			}
			j++
		}
		if alpha {
			w := strings.Trim(clean[i:j], "'")
			if len(w) > 2 {
				if _, stop := StopWords[w]; !stop {
					out = append(out, w)
				}
			}
		}
		i = j
	}
	return out
}

// StripURLs removes http(s) links.
func StripURLs(s string) string {
	var b strings.Builder
	for {
		k := indexURL(s)
		if k < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:k])
		end := strings.IndexFunc(s[k:], unicode.IsSpace)
		if end < 0 {
			return b.String()
		}
		s = s[k+end:]
	}
}

// StripEmojis removes custom emoji tokens.
func StripEmojis(s string) string {
	emojis := Emojis(s)
	if len(emojis) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, e := range emojis {
		b.WriteString(s[last:e.Span.Start])
		last = e.Span.End
	}
	b.WriteString(s[last:])
	return b.String()
}

func indexURL(s string) int {
	a := strings.Index(s, "http://")
	b := strings.Index(s, "https://")
	switch {
	case a < 0:
		return b
	case b < 0:
		return a
	case a < b:
		return a
	default:
		return b
	}
}

func isWordByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' || c == '\''
}

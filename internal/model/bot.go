package model

// IsBotAuthor reports whether author carries a legacy four-digit
// discriminator ("name#1234"), the shape exports use for bot accounts.
func IsBotAuthor(author string) bool {
	for i := 0; i+4 < len(author); i++ {
		if author[i] != '#' {
			continue
		}
		if isDigit(author[i+1]) && isDigit(author[i+2]) && isDigit(author[i+3]) && isDigit(author[i+4]) {
			return true
		}
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

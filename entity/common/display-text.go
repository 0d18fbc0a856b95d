package common

import "strings"

// DisplayText is a localized text line: language code ISO 639-1 and plain text without markup
type DisplayText struct {
	Language string `json:"language" bson:"language" validate:"required,len=2"`
	Text     string `json:"text" bson:"text" validate:"required,min=1,max=512"`
}

func NewDisplayText(language, text string) DisplayText {
	return DisplayText{Language: language, Text: text}
}

// ContainsFold reports whether any of values contains term, ignoring case
func ContainsFold(term string, values ...string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, v := range values {
		if v != "" && strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

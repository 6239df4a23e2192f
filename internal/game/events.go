package game

// Events 是討論階段抽出的情境規則，只是增加趣味的文字提示，不會被系統強制執行
var Events = []string{
	"No speaking first 30s",
	"Everyone lies once",
	"No repeating words",
	"One-word answers only 45s",
	"Do not say category",
	"Talk in accents",
	"Speak only in questions",
	"Explain using only 3 words max per sentence",
	"Rhyme your sentences",
}

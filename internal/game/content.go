package game

import "imposter_web/internal/models"

// WordPair 是相似詞模式用的一組詞：船員拿 Crew，臥底拿 Imposter
type WordPair struct {
	Crew     string `json:"crew"`
	Imposter string `json:"imposter"`
}

// Category 是一個題庫分類
type Category struct {
	Name              string                         `json:"name"`
	WordsByDifficulty map[models.Difficulty][]string `json:"wordsByDifficulty"`
	WordPairs         []WordPair                     `json:"wordPairs"`
}

// ContentProvider 提供可用的題庫分類
// 題庫內容由外部提供，引擎只依賴這個介面
type ContentProvider interface {
	Categories() []Category
}

// StaticContent 是以固定資料實作的 ContentProvider
type StaticContent struct {
	categories []Category
}

// NewStaticContent 以給定的分類建立 ContentProvider
func NewStaticContent(categories []Category) *StaticContent {
	return &StaticContent{categories: categories}
}

// Categories 回傳全部分類
func (c *StaticContent) Categories() []Category {
	return c.categories
}

// DefaultContent 回傳內建的起始題庫
func DefaultContent() *StaticContent {
	return NewStaticContent([]Category{
		{
			Name: "Animals",
			WordsByDifficulty: map[models.Difficulty][]string{
				models.DifficultyEasy:   {"Dog", "Cat", "Horse", "Rabbit", "Duck", "Cow", "Pig", "Sheep"},
				models.DifficultyMedium: {"Dolphin", "Penguin", "Kangaroo", "Owl", "Camel", "Raccoon", "Otter", "Hedgehog"},
				models.DifficultyHard:   {"Axolotl", "Pangolin", "Tapir", "Capuchin", "Ibex", "Quokka", "Okapi", "Narwhal"},
			},
			WordPairs: []WordPair{
				{Crew: "Dog", Imposter: "Wolf"},
				{Crew: "Cat", Imposter: "Tiger"},
				{Crew: "Duck", Imposter: "Goose"},
				{Crew: "Dolphin", Imposter: "Shark"},
				{Crew: "Rabbit", Imposter: "Hare"},
			},
		},
		{
			Name: "Food",
			WordsByDifficulty: map[models.Difficulty][]string{
				models.DifficultyEasy:   {"Pizza", "Burger", "Apple", "Bread", "Rice", "Cheese", "Egg", "Pasta"},
				models.DifficultyMedium: {"Sushi", "Taco", "Lasagna", "Pancake", "Dumpling", "Croissant", "Curry", "Falafel"},
				models.DifficultyHard:   {"Ratatouille", "Tiramisu", "Paella", "Goulash", "Ceviche", "Baklava", "Pho", "Gnocchi"},
			},
			WordPairs: []WordPair{
				{Crew: "Pizza", Imposter: "Flatbread"},
				{Crew: "Burger", Imposter: "Sandwich"},
				{Crew: "Sushi", Imposter: "Sashimi"},
				{Crew: "Pancake", Imposter: "Waffle"},
				{Crew: "Dumpling", Imposter: "Ravioli"},
			},
		},
		{
			Name: "Places",
			WordsByDifficulty: map[models.Difficulty][]string{
				models.DifficultyEasy:   {"Beach", "School", "Park", "Hospital", "Airport", "Cinema", "Farm", "Library"},
				models.DifficultyMedium: {"Stadium", "Museum", "Casino", "Lighthouse", "Vineyard", "Harbor", "Temple", "Prison"},
				models.DifficultyHard:   {"Observatory", "Catacombs", "Oasis", "Glacier", "Bazaar", "Monastery", "Archipelago", "Quarry"},
			},
			WordPairs: []WordPair{
				{Crew: "Beach", Imposter: "Lake"},
				{Crew: "School", Imposter: "University"},
				{Crew: "Cinema", Imposter: "Theater"},
				{Crew: "Airport", Imposter: "Train Station"},
				{Crew: "Museum", Imposter: "Gallery"},
			},
		},
		{
			Name: "Objects",
			WordsByDifficulty: map[models.Difficulty][]string{
				models.DifficultyEasy:   {"Chair", "Phone", "Clock", "Mirror", "Umbrella", "Pillow", "Candle", "Wallet"},
				models.DifficultyMedium: {"Compass", "Telescope", "Typewriter", "Anchor", "Lantern", "Easel", "Hourglass", "Padlock"},
				models.DifficultyHard:   {"Astrolabe", "Metronome", "Sextant", "Abacus", "Gramophone", "Kaleidoscope", "Anvil", "Loom"},
			},
			WordPairs: []WordPair{
				{Crew: "Chair", Imposter: "Stool"},
				{Crew: "Clock", Imposter: "Watch"},
				{Crew: "Mirror", Imposter: "Window"},
				{Crew: "Candle", Imposter: "Lamp"},
				{Crew: "Telescope", Imposter: "Binoculars"},
			},
		},
	})
}

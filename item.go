package au

// Category is a closed content tag assigned per feed, not per item.
type Category string

const (
	CategoryChineseAI Category = "chinese-ai"
	CategoryResearch  Category = "research"
	CategoryLLM       Category = "llm"
	CategoryIndustry  Category = "industry"
	CategoryCompany   Category = "company"
	CategoryCommunity Category = "community"
)

// KnownCategories returns all valid categories in canonical order.
func KnownCategories() []Category {
	return []Category{
		CategoryChineseAI,
		CategoryResearch,
		CategoryLLM,
		CategoryIndustry,
		CategoryCompany,
		CategoryCommunity,
	}
}

// KnownCategory reports whether given category is part of the closed set.
func KnownCategory(category Category) bool {
	for _, known := range KnownCategories() {
		if category == known {
			return true
		}
	}
	return false
}

// ItemStore is an interface of the durable item store.
//
// Insert is a silent no-op (returning false) when the id is already present.
// Query returns items ordered by published date, newest first.
type ItemStore interface {
	Insert(item Item) bool
	Exists(id string) bool
	CountForSourceOnDay(source, day string) int
	Query(category Category, limit int) []Item
	Categories() []CategoryCount

	SetVerbose(v bool)
}

// Item is a struct for a stored article.
//
// An item is created once at ingestion and never mutated or deleted afterward.
type Item struct {
	ID        string   `gorm:"primaryKey"` // derived from URL, see ItemID
	Title     string   `gorm:"not null"`
	URL       string   `gorm:"not null"`
	Source    string   `gorm:"index"` // feed name, quota partition key
	Category  Category `gorm:"index"`
	Published string   `gorm:"index:idx_items_published,sort:desc"` // "2006-01-02 15:04:05", UTC
	Fetched   string
	Summary   string
	Score     float64 `gorm:"index:idx_items_score,sort:desc"`
	Tier      int
}

// CategoryCount is a struct for a category with its stored item count.
type CategoryCount struct {
	Category Category
	Count    int64
}

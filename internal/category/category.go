package category

// Category is one of the fixed labels an expense can be filed under.
type Category struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

const (
	Food              = "Food"
	Transportation    = "Transportation"
	Entertainment     = "Entertainment"
	Utilities         = "Utilities"
	Education         = "Education"
	Health            = "Health"
	Shopping          = "Shopping"
	SavingInvestments = "Saving & Investments"
	Other             = "Other"
	fallbackColor     = "#607D8B"
)

// all is in display order.
var all = []Category{
	{Name: Food, Color: "#FF5722"},
	{Name: Transportation, Color: "#3F51B5"},
	{Name: Entertainment, Color: "#E91E63"},
	{Name: Utilities, Color: "#9C27B0"},
	{Name: Education, Color: "#2196F3"},
	{Name: Health, Color: "#4CAF50"},
	{Name: Shopping, Color: "#FF9800"},
	{Name: SavingInvestments, Color: "#009688"},
	{Name: Other, Color: "#607D8B"},
}

func All() []Category {
	out := make([]Category, len(all))
	copy(out, all)
	return out
}

func Names() []string {
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = c.Name
	}
	return names
}

func IsValid(name string) bool {
	_, ok := Lookup(name)
	return ok
}

func Lookup(name string) (Category, bool) {
	for _, c := range all {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

func ColorOf(name string) string {
	if c, ok := Lookup(name); ok {
		return c.Color
	}
	return fallbackColor
}

// Index returns the display position of name, or -1.
func Index(name string) int {
	for i, c := range all {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (c Category) ToResponse() CategoryResponse {
	return CategoryResponse{
		Name:  c.Name,
		Color: c.Color,
	}
}

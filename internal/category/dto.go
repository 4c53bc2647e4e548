package category

type CategoryResponse struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type CategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

package grading

// CatalogView is what a student sees of a test: no correctness data.
type CatalogView struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Questions   []CatalogQuestion `json:"questions"`
}

type CatalogQuestion struct {
	ID       uint            `json:"id"`
	Order    int             `json:"order"`
	Text     string          `json:"text"`
	ImageURL string          `json:"image_url,omitempty"`
	Type     Kind            `json:"type"`
	Options  []CatalogOption `json:"options,omitempty"`
}

type CatalogOption struct {
	ID    uint   `json:"id"`
	Order int    `json:"order"`
	Text  string `json:"text"`
}

// Sanitize builds the catalog for qs, ordered by question and option order.
func Sanitize(id uint, title, description string, qs []Question) CatalogView {
	ordered := cloneQuestions(qs)
	SortByOrder(ordered)

	view := CatalogView{
		ID:          id,
		Title:       title,
		Description: description,
		Questions:   make([]CatalogQuestion, 0, len(ordered)),
	}
	for _, q := range ordered {
		cq := CatalogQuestion{
			ID:       q.ID,
			Order:    q.Order,
			Text:     q.Text,
			ImageURL: q.ImageURL,
		}
		switch body := q.Body.(type) {
		case Choice:
			cq.Type = KindChoice
			cq.Options = make([]CatalogOption, 0, len(body.Options))
			for _, o := range body.Options {
				cq.Options = append(cq.Options, CatalogOption{ID: o.ID, Order: o.Order, Text: o.Text})
			}
		case Open:
			cq.Type = KindOpen
		}
		view.Questions = append(view.Questions, cq)
	}
	return view
}

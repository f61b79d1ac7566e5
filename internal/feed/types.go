package feed

// Record describes a single wallpaper. Records are immutable once produced.
type Record struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Page is one fixed-size batch of records for a page index.
type Page struct {
	Index   int      `json:"page"`
	Records []Record `json:"records"`
}

// Len returns the number of records on the page.
func (p Page) Len() int {
	return len(p.Records)
}

// Uncategorized labels ids outside the bucketing table.
const Uncategorized = "Uncategorized"

type bucket struct {
	first, last int
	label       string
}

// buckets maps contiguous id ranges to grouping labels.
var buckets = []bucket{
	{1, 120, "Abstract"},
	{121, 240, "Nature"},
	{241, 360, "City"},
	{361, 480, "Minimal"},
	{481, 600, "Space"},
	{601, 720, "Anime"},
	{721, 840, "Night"},
	{841, 1000, "Fantasy"},
}

// CategoryFor returns the grouping label for a 1-based image number.
func CategoryFor(n int) string {
	for _, b := range buckets {
		if n >= b.first && n <= b.last {
			return b.label
		}
	}
	return Uncategorized
}

// Categories lists every label of the bucketing table in id order.
func Categories() []string {
	out := make([]string, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, b.label)
	}
	return out
}

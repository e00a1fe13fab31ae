package extract

// Field names one attribute of a ProductRecord.
type Field string

const (
	FieldTitle Field = "title"
	FieldYear  Field = "year"
	FieldColor Field = "color"
	FieldPrice Field = "price"
)

// Fields lists every record field in output order.
func Fields() []Field {
	return []Field{FieldTitle, FieldYear, FieldColor, FieldPrice}
}

// ProductRecord is the normalized result of one extraction. A nil field was
// not resolved by any strategy and serializes as null.
type ProductRecord struct {
	Title *string `json:"title" yaml:"title"`
	Year  *string `json:"year" yaml:"year"`
	Color *string `json:"color" yaml:"color"`
	Price *string `json:"price" yaml:"price"`
}

func (r *ProductRecord) slot(f Field) **string {
	switch f {
	case FieldTitle:
		return &r.Title
	case FieldYear:
		return &r.Year
	case FieldColor:
		return &r.Color
	case FieldPrice:
		return &r.Price
	}
	return nil
}

// Get returns the value of f and whether it was resolved.
func (r ProductRecord) Get(f Field) (string, bool) {
	p := r.slot(f)
	if p == nil || *p == nil {
		return "", false
	}
	return **p, true
}

// Has reports whether f already holds a value.
func (r *ProductRecord) Has(f Field) bool {
	p := r.slot(f)
	return p != nil && *p != nil
}

// set stores v into f unless f is already resolved or v is empty.
// It reports whether the value was stored.
func (r *ProductRecord) set(f Field, v string) bool {
	p := r.slot(f)
	if p == nil || *p != nil || v == "" {
		return false
	}
	s := v
	*p = &s
	return true
}

// Resolved counts the fields holding a value.
func (r ProductRecord) Resolved() int {
	n := 0
	for _, f := range Fields() {
		if r.Has(f) {
			n++
		}
	}
	return n
}

// Provenance maps each resolved field to the name of the strategy that set it.
type Provenance map[Field]string

package model

// Reference is a named lookup record. Departments (PIC) and groups share this shape.
type Reference struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Copy returns a copy of the reference, or nil
func (r *Reference) Copy() *Reference {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

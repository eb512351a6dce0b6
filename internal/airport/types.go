package airport

// Airport is the reference-data shape served to autocomplete. City and
// Country stay empty strings when the upstream record lacks them.
type Airport struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

package schemas

// GeneratedReport is an immutable, persisted report. Modules records the exact
// ordered selection used to build the prompt that produced Markdown.
type GeneratedReport struct {
	ID        string   `json:"id"`
	TeamID    string   `json:"teamId"`
	CreatedAt int64    `json:"createdAt"` // unix milliseconds, assigned at persistence time
	Version   string   `json:"version"`
	Modules   []string `json:"modules"`
	Markdown  string   `json:"markdown"`
}

package httpapi

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"

	"github.com/mindsetos/teamreport/api/schemas"
	"github.com/mindsetos/teamreport/internal/reportgen"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ModuleRef names one selected module. Clients may send the bare id or the
// full module definition; either way only the id is used and the catalog
// supplies the template.
type ModuleRef struct {
	ID     string `json:"id"`
	Title  string `json:"title,omitempty"`
	Prompt string `json:"prompt,omitempty"`
}

// UnmarshalJSON accepts "id" or {"id": ..., "title": ..., "prompt": ...}.
func (m *ModuleRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*m = ModuleRef{ID: id}
		return nil
	}
	type plain ModuleRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*m = ModuleRef(p)
	return nil
}

// GenerateRequest is the body of POST /api/generate-report. Modules is a
// pointer so an absent field (use every module) differs from an empty list
// (rejected).
type GenerateRequest struct {
	TeamID       string                 `json:"teamId"`
	Narrative    string                 `json:"narrative,omitempty"`
	ValuesVector string                 `json:"valuesVector,omitempty"`
	Team         *schemas.TeamAggregate `json:"team"`
	Modules      *[]ModuleRef           `json:"modules"`
	Persist      bool                   `json:"persist,omitempty"`
}

// Selection converts the modules field into the gateway's tri-state selection.
func (r GenerateRequest) Selection() (reportgen.Selection, error) {
	if r.Modules == nil {
		return reportgen.OmittedSelection(), nil
	}
	ids := make([]string, 0, len(*r.Modules))
	for i, m := range *r.Modules {
		id := strings.TrimSpace(m.ID)
		if id == "" {
			return reportgen.Selection{}, fmt.Errorf("%w: modules[%d] has no id", schemas.ErrInvalidRequest, i)
		}
		ids = append(ids, id)
	}
	return reportgen.Select(ids...), nil
}

// GenerateResponse is returned by POST /api/generate-report.
type GenerateResponse struct {
	Markdown     string   `json:"markdown"`
	Version      string   `json:"version"`
	Modules      []string `json:"modules"`
	Saved        bool     `json:"saved,omitempty"`
	CreatedAt    int64    `json:"createdAt,omitempty"`
	PersistError string   `json:"persistError,omitempty"`
}

// SaveRequest is the body of POST /api/reports.
type SaveRequest struct {
	TeamID   string   `json:"teamId"`
	Version  string   `json:"version"`
	Modules  []string `json:"modules"`
	Markdown string   `json:"markdown"`
}

// SaveResponse is returned by POST /api/reports.
type SaveResponse struct {
	CreatedAt int64 `json:"createdAt"`
}

// ModuleInfo is one catalog entry as listed by GET /api/modules.
type ModuleInfo struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
}

// decode reads a bounded JSON body into v.
func decode(c *gin.Context, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: reading body: %w", schemas.ErrInvalidRequest, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return fmt.Errorf("%w: request body is empty", schemas.ErrInvalidRequest)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: malformed JSON: %w", schemas.ErrInvalidRequest, err)
	}
	return nil
}

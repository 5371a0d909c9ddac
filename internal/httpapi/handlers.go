package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mindsetos/teamreport/internal/reportgen"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listModules(c *gin.Context) {
	all := s.deps.Registry.All()
	out := make([]ModuleInfo, len(all))
	for i, m := range all {
		out[i] = ModuleInfo{ID: m.ID, Title: m.Title, Position: i + 1}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listOrganizations(c *gin.Context) {
	orgs, err := s.deps.Directory.ListOrganizations(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orgs)
}

func (s *Server) listTeams(c *gin.Context) {
	teams, err := s.deps.Directory.ListTeams(c.Request.Context(), strings.TrimSpace(c.Query("orgId")))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

func (s *Server) getTeam(c *gin.Context) {
	team, err := s.deps.Directory.GetTeamAggregate(c.Request.Context(), c.Param("teamId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// latestReport answers null, not 404, for a team without reports.
func (s *Server) latestReport(c *gin.Context) {
	report, err := s.deps.Reports.GetLatestReport(c.Request.Context(), c.Param("teamId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if report == nil {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte("null"))
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) generateReport(c *gin.Context) {
	var req GenerateRequest
	if err := decode(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	sel, err := req.Selection()
	if err != nil {
		s.fail(c, err)
		return
	}

	greq := reportgen.Request{
		TeamID:    req.TeamID,
		Team:      req.Team,
		Overrides: reportgen.Overrides{Narrative: req.Narrative, ValuesVector: req.ValuesVector},
		Selection: sel,
	}

	var res *reportgen.Result
	if req.Persist {
		res, err = s.deps.Gateway.GenerateAndSave(c.Request.Context(), greq)
	} else {
		res, err = s.deps.Gateway.Generate(c.Request.Context(), greq)
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	out := GenerateResponse{
		Markdown:  res.Markdown,
		Version:   res.Version,
		Modules:   res.Modules,
		Saved:     res.Saved,
		CreatedAt: res.CreatedAt,
	}
	if res.PersistErr != nil {
		out.PersistError = res.PersistErr.Error()
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) saveReport(c *gin.Context) {
	var req SaveRequest
	if err := decode(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	createdAt, err := s.deps.Gateway.Save(c.Request.Context(), req.TeamID, req.Version, req.Modules, req.Markdown)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, SaveResponse{CreatedAt: createdAt})
}
